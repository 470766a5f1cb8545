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

// Package books drives the book catalog's CRUD endpoints.
//
// Operations return the raw response whatever its status so negative paths
// can be asserted on.  An error is only returned when the service could not
// be reached.
package books

import (
	"context"
	"fmt"
	"net/http"

	"github.com/unikorn-cloud/bookcatalog/pkg/request"
	"github.com/unikorn-cloud/bookcatalog/pkg/types"
)

// Client wraps the book endpoints.
type Client struct {
	client    *request.Client
	factory   *request.Factory
	endpoints *Endpoints
}

// New returns a new client.
func New(client *request.Client, factory *request.Factory) *Client {
	return &Client{
		client:    client,
		factory:   factory,
		endpoints: NewEndpoints(),
	}
}

func (c *Client) do(ctx context.Context, spec request.Spec, method, path string, body any) (*request.Response, error) {
	resp, err := c.client.Do(ctx, spec, method, path, body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	return resp, nil
}

// List lists all books.
func (c *Client) List(ctx context.Context) (*request.Response, error) {
	return c.do(ctx, c.factory.Base(), http.MethodGet, c.endpoints.ListBooks(), nil)
}

// Get reads a single book.
func (c *Client) Get(ctx context.Context, id string) (*request.Response, error) {
	return c.do(ctx, c.factory.Base(), http.MethodGet, c.endpoints.GetBook(id), nil)
}

// Create adds a book.
func (c *Client) Create(ctx context.Context, book types.Book, token string) (*request.Response, error) {
	return c.do(ctx, c.factory.Authenticated(token), http.MethodPost, c.endpoints.CreateBook(), book)
}

// CreateUnauthenticated adds a book without credentials.
func (c *Client) CreateUnauthenticated(ctx context.Context, book types.Book) (*request.Response, error) {
	return c.do(ctx, c.factory.Base(), http.MethodPost, c.endpoints.CreateBook(), book)
}

// Update modifies a book.  Whether omitted fields are kept or cleared is
// up to the service, see ProbeUpdateSemantics.
func (c *Client) Update(ctx context.Context, id string, book types.Book, token string) (*request.Response, error) {
	return c.do(ctx, c.factory.Authenticated(token), http.MethodPut, c.endpoints.UpdateBook(id), book)
}

// UpdateUnauthenticated modifies a book without credentials.
func (c *Client) UpdateUnauthenticated(ctx context.Context, id string, book types.Book) (*request.Response, error) {
	return c.do(ctx, c.factory.Base(), http.MethodPut, c.endpoints.UpdateBook(id), book)
}

// Delete removes a book.
func (c *Client) Delete(ctx context.Context, id, token string) (*request.Response, error) {
	return c.do(ctx, c.factory.Authenticated(token), http.MethodDelete, c.endpoints.DeleteBook(id), nil)
}

// DeleteUnauthenticated removes a book without credentials.
func (c *Client) DeleteUnauthenticated(ctx context.Context, id string) (*request.Response, error) {
	return c.do(ctx, c.factory.Base(), http.MethodDelete, c.endpoints.DeleteBook(id), nil)
}

// Health reads the service liveness report.
func (c *Client) Health(ctx context.Context) (*request.Response, error) {
	return c.do(ctx, c.factory.Base(), http.MethodGet, c.endpoints.HealthCheck(), nil)
}

// Index reads the service's endpoint directory.
func (c *Client) Index(ctx context.Context) (*request.Response, error) {
	return c.do(ctx, c.factory.Base(), http.MethodGet, c.endpoints.Index(), nil)
}

// Classify maps a response onto the error taxonomy for reporting.
func Classify(resp *request.Response) types.Outcome {
	return types.OutcomeForStatus(resp.StatusCode)
}

// DecodeBook decodes a single book envelope.
func DecodeBook(resp *request.Response) (*types.Envelope[types.Book], error) {
	var envelope types.Envelope[types.Book]

	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}

	return &envelope, nil
}

// DecodeBooks decodes a book collection envelope.
func DecodeBooks(resp *request.Response) (*types.Envelope[[]types.Book], error) {
	var envelope types.Envelope[[]types.Book]

	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}

	return &envelope, nil
}

// DecodeDeleted decodes a deletion acknowledgement.
func DecodeDeleted(resp *request.Response) (*types.DeleteResponse, error) {
	var deleted types.DeleteResponse

	if err := resp.Decode(&deleted); err != nil {
		return nil, err
	}

	return &deleted, nil
}

// DecodeError decodes a failure envelope.
func DecodeError(resp *request.Response) (*types.ErrorEnvelope, error) {
	var envelope types.ErrorEnvelope

	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}

	envelope.StatusCode = resp.StatusCode

	return &envelope, nil
}
