/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"context"
	"fmt"

	"github.com/onsi/ginkgo/v2"

	"github.com/unikorn-cloud/bookcatalog/pkg/auth"
	"github.com/unikorn-cloud/bookcatalog/pkg/books"
	"github.com/unikorn-cloud/bookcatalog/pkg/request"
	"github.com/unikorn-cloud/bookcatalog/pkg/schema"
	"github.com/unikorn-cloud/bookcatalog/test/reference"
)

// APIClient bundles everything a scenario needs to talk to the service.
type APIClient struct {
	Auth   *auth.Client
	Books  *books.Client
	Schema *schema.Validator

	config *TestConfig
	server *reference.Server
}

// NewAPIClientWithConfig returns a client for the configured service.  Unless
// the configuration names an external service an in-process reference
// service is started, and config.BaseURL is pointed at it.  Callers must
// Close the client.
func NewAPIClientWithConfig(ctx context.Context, config *TestConfig) (*APIClient, error) {
	logger := ginkgo.GinkgoLogr

	c := &APIClient{
		config: config,
	}

	if !config.External {
		server, err := reference.NewServer(&reference.Options{
			Username:   config.Username,
			Password:   config.Password,
			UpdateMode: config.UpdateMode,
			Logger:     logger.WithName("reference"),
		})
		if err != nil {
			return nil, fmt.Errorf("starting reference service: %w", err)
		}

		c.server = server

		// The snapshot is copied so the caller's is never mutated.
		snapshot := *config.Config
		snapshot.BaseURL = server.URL

		c.config = &TestConfig{
			Config:     &snapshot,
			External:   false,
			UpdateMode: config.UpdateMode,
		}
	}

	validator, err := schema.New(ctx)
	if err != nil {
		c.Close()

		return nil, err
	}

	client := request.NewClient(request.WithLogger(logger.WithName("client")))
	factory := request.NewFactory(c.config.Config)

	c.Auth = auth.New(client, factory, c.config.Config)
	c.Books = books.New(client, factory)
	c.Schema = validator

	return c, nil
}

// Config is the configuration actually in use.
func (c *APIClient) Config() *TestConfig {
	return c.config
}

// Reset restores the reference service's seed catalog.  It does nothing for
// an external service.
func (c *APIClient) Reset() {
	if c.server != nil {
		c.server.Handler.Reset()
	}
}

// Close stops the reference service if one was started.
func (c *APIClient) Close() {
	if c.server != nil {
		c.server.Close()
	}
}

// LogTraceContext tells the reader how to find the request in service logs.
func LogTraceContext(resp *request.Response) {
	if resp == nil || resp.TraceID == "" {
		return
	}

	ginkgo.GinkgoWriter.Printf("TRACE CONTEXT: Use trace ID '%s' to search logs for this request\n", resp.TraceID)
}
