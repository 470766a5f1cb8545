/*
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

package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/unikorn-cloud/bookcatalog/pkg/assert"
	"github.com/unikorn-cloud/bookcatalog/pkg/config"
	"github.com/unikorn-cloud/bookcatalog/pkg/request"
	"github.com/unikorn-cloud/bookcatalog/pkg/types"
)

const (
	// LoginPath is the login endpoint.
	LoginPath = "/auth/login"
)

// Client logs in to the book catalog.
type Client struct {
	client      *request.Client
	factory     *request.Factory
	credentials types.Credentials
}

// New returns a new client.  The default credentials are read from the
// configuration snapshot.
func New(client *request.Client, factory *request.Factory, c *config.Config) *Client {
	return &Client{
		client:  client,
		factory: factory,
		credentials: types.Credentials{
			Username: c.Username,
			Password: c.Password,
		},
	}
}

// Login posts the credentials and returns the raw response whatever its
// status.
func (c *Client) Login(ctx context.Context, credentials types.Credentials) (*request.Response, error) {
	resp, err := c.client.Do(ctx, c.factory.Base(), http.MethodPost, LoginPath, credentials)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	return resp, nil
}

// LoginAndGetToken logs in and extracts the bearer token, failing unless
// the service answers 200.
func (c *Client) LoginAndGetToken(ctx context.Context, credentials types.Credentials) (types.Token, error) {
	resp, err := c.Login(ctx, credentials)
	if err != nil {
		return types.Token{}, err
	}

	if err := assert.StatusCode(resp, http.StatusOK); err != nil {
		return types.Token{}, err
	}

	if err := assert.FieldPresent(resp, "token"); err != nil {
		return types.Token{}, err
	}

	var login types.LoginResponse

	if err := resp.Decode(&login); err != nil {
		return types.Token{}, err
	}

	return types.Token{
		Value:     login.Token,
		ExpiresIn: login.ExpiresIn,
	}, nil
}

// LoginWithDefaultCredentials logs in as the configured user.
func (c *Client) LoginWithDefaultCredentials(ctx context.Context) (types.Token, error) {
	return c.LoginAndGetToken(ctx, c.credentials)
}
