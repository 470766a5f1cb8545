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

// Package schema checks responses against the book catalog's OpenAPI
// contract.
package schema

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"

	"github.com/unikorn-cloud/bookcatalog/pkg/request"
)

var (
	// ErrNoRoute is raised when the contract has no operation for a request.
	ErrNoRoute = errors.New("no matching operation")

	// ErrInvalidResponse is raised when a response breaks the contract.
	ErrInvalidResponse = errors.New("response does not match schema")

	// ErrNoRequest is raised when a response carries no request to match on.
	ErrNoRequest = errors.New("response has no request")
)

//go:embed openapi.yaml
var document []byte

// Validator validates responses.
type Validator struct {
	doc    *openapi3.T
	router routers.Router
}

// New loads the embedded contract.
func New(ctx context.Context) (*Validator, error) {
	return load(ctx, func(loader *openapi3.Loader) (*openapi3.T, error) {
		return loader.LoadFromData(document)
	})
}

// NewFromFile loads a contract from disk, e.g. one published by the service.
func NewFromFile(ctx context.Context, path string) (*Validator, error) {
	return load(ctx, func(loader *openapi3.Loader) (*openapi3.T, error) {
		return loader.LoadFromFile(path)
	})
}

func load(ctx context.Context, fn func(*openapi3.Loader) (*openapi3.T, error)) (*Validator, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := fn(loader)
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validating schema: %w", err)
	}

	// Match on path alone so the contract applies whatever the base URL.
	doc.Servers = nil

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("creating router: %w", err)
	}

	v := &Validator{
		doc:    doc,
		router: router,
	}

	return v, nil
}

// Document returns the parsed contract.
func (v *Validator) Document() *openapi3.T {
	return v.doc
}

// Validate checks the response status, headers and body against the
// operation that matches its request.
func (v *Validator) Validate(ctx context.Context, resp *request.Response) error {
	if resp.Request == nil {
		return ErrNoRequest
	}

	route, params, err := v.router.FindRoute(resp.Request)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrNoRoute, resp.Request.Method, resp.Request.URL.Path, err)
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    resp.Request,
			PathParams: params,
			Route:      route,
		},
		Status: resp.StatusCode,
		Header: resp.Header,
		Options: &openapi3filter.Options{
			IncludeResponseStatus: true,
			MultiError:            true,
		},
	}

	input.SetBodyBytes(resp.Body)

	if err := openapi3filter.ValidateResponse(ctx, input); err != nil {
		return fmt.Errorf("%w: %s %s %d: %w", ErrInvalidResponse, resp.Request.Method, route.Path, resp.StatusCode, err)
	}

	return nil
}
