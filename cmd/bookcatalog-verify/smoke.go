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

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr"

	"github.com/unikorn-cloud/bookcatalog/pkg/assert"
	"github.com/unikorn-cloud/bookcatalog/pkg/auth"
	"github.com/unikorn-cloud/bookcatalog/pkg/books"
	"github.com/unikorn-cloud/bookcatalog/pkg/config"
	"github.com/unikorn-cloud/bookcatalog/pkg/fixtures"
	"github.com/unikorn-cloud/bookcatalog/pkg/lifecycle"
	"github.com/unikorn-cloud/bookcatalog/pkg/request"
	"github.com/unikorn-cloud/bookcatalog/pkg/retry"
)

var (
	// errSkipped marks a scenario that could not run.
	errSkipped = errors.New("skipped")
)

// verifier holds what the smoke scenarios share.
type verifier struct {
	config *config.Config
	auth   *auth.Client
	books  *books.Client
	token  string
}

func newVerifier(c *config.Config, logger logr.Logger) *verifier {
	client := request.NewClient(request.WithLogger(logger.WithName("client")))
	factory := request.NewFactory(c)

	return &verifier{
		config: c,
		auth:   auth.New(client, factory, c),
		books:  books.New(client, factory),
	}
}

type scenario struct {
	name string
	run  func(ctx context.Context, v *verifier) error
}

func (v *verifier) requireToken() error {
	if v.token == "" {
		return fmt.Errorf("%w: no token, login failed", errSkipped)
	}

	return nil
}

// create adds a fresh book and returns its ID.
func (v *verifier) create(ctx context.Context) (string, error) {
	resp, err := v.books.Create(ctx, fixtures.NewBook().Build(), v.token)
	if err != nil {
		return "", err
	}

	if err := assert.StatusCode(resp, http.StatusCreated); err != nil {
		return "", err
	}

	envelope, err := books.DecodeBook(resp)
	if err != nil {
		return "", err
	}

	return envelope.Data.ID, nil
}

func (v *verifier) cleanup(ctx context.Context, id string) {
	if _, err := v.books.Delete(ctx, id, v.token); err != nil {
		logr.FromContextOrDiscard(ctx).Info("failed to delete book", "id", id, "error", err)
	}
}

func smokeScenarios() []scenario {
	return []scenario{
		{
			name: "login with the configured credentials",
			run: func(ctx context.Context, v *verifier) error {
				token, err := v.auth.LoginWithDefaultCredentials(ctx)
				if err != nil {
					return err
				}

				v.token = token.Value

				return nil
			},
		},
		{
			name: "list books with a consistent count",
			run: func(ctx context.Context, v *verifier) error {
				resp, err := v.books.List(ctx)
				if err != nil {
					return err
				}

				return assert.All(
					assert.SuccessWithData(resp),
					assert.CountMatchesData(resp),
					assert.ResponseTimeUnder(resp, v.config.Timeout),
				)
			},
		},
		{
			name: "create and read back a book",
			run: func(ctx context.Context, v *verifier) error {
				if err := v.requireToken(); err != nil {
					return err
				}

				book := fixtures.NewBook().Build()

				resp, err := v.books.Create(ctx, book, v.token)
				if err != nil {
					return err
				}

				if err := assert.StatusCode(resp, http.StatusCreated); err != nil {
					return err
				}

				envelope, err := books.DecodeBook(resp)
				if err != nil {
					return err
				}

				defer v.cleanup(ctx, envelope.Data.ID)

				read, err := v.books.Get(ctx, envelope.Data.ID)
				if err != nil {
					return err
				}

				return assert.All(
					assert.SuccessWithData(read),
					assert.FieldEquals(read, "data.title", book.Title),
					assert.FieldEquals(read, "data.isbn", book.ISBN),
				)
			},
		},
		{
			name: "reject creation without credentials",
			run: func(ctx context.Context, v *verifier) error {
				resp, err := v.books.CreateUnauthenticated(ctx, fixtures.NewBook().Build())
				if err != nil {
					return err
				}

				return assert.Error(resp, http.StatusUnauthorized)
			},
		},
		{
			name: "reject an invalid ISBN",
			run: func(ctx context.Context, v *verifier) error {
				if err := v.requireToken(); err != nil {
					return err
				}

				resp, err := v.books.Create(ctx, fixtures.NewBook().WithInvalidISBN().Build(), v.token)
				if err != nil {
					return err
				}

				return assert.All(
					assert.Error(resp, http.StatusBadRequest),
					assert.ErrorMessageContains(resp, "Invalid ISBN"),
				)
			},
		},
		{
			name: "delete a book terminally",
			run: func(ctx context.Context, v *verifier) error {
				if err := v.requireToken(); err != nil {
					return err
				}

				id, err := v.create(ctx)
				if err != nil {
					return err
				}

				resp, err := v.books.Delete(ctx, id, v.token)
				if err != nil {
					return err
				}

				if err := assert.All(
					assert.StatusCode(resp, http.StatusOK),
					assert.FieldEquals(resp, "deletedId", id),
				); err != nil {
					return err
				}

				read, err := v.books.Get(ctx, id)
				if err != nil {
					return err
				}

				return assert.Error(read, http.StatusNotFound)
			},
		},
	}
}

// waitForService polls the health endpoint until it answers.
func (v *verifier) waitForService(ctx context.Context) error {
	health := func(ctx context.Context) (*request.Response, error) {
		return v.books.Health(ctx)
	}

	_, err := retry.Do(ctx, health, v.config.MaxRetryAttempts, retry.StatusIs(http.StatusOK))

	return err
}

// runScenarios runs each scenario, retrying failures up to the configured
// attempt count, and reports through the listener.
func runScenarios(ctx context.Context, v *verifier, scenarios []scenario, listener lifecycle.Listener) {
	log := logr.FromContextOrDiscard(ctx)

	for _, s := range scenarios {
		listener.TestStarted(s.name)

		policy := retry.FromConfig(v.config)
		start := time.Now()

		var err error

		for {
			err = s.run(ctx, v)
			if err == nil || errors.Is(err, errSkipped) || ctx.Err() != nil || !policy.Retry() {
				break
			}

			log.Info("retrying scenario", "scenario", s.name, "attempt", policy.Count()+1, "error", err)
		}

		switch {
		case err == nil:
			listener.TestPassed(s.name, time.Since(start))
		case errors.Is(err, errSkipped):
			listener.TestSkipped(s.name, err.Error())
		default:
			listener.TestFailed(s.name, err.Error(), time.Since(start))
		}
	}
}
