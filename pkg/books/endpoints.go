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

package books

import (
	"fmt"
	"net/url"
)

// Endpoints contains all API endpoint patterns.
type Endpoints struct{}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

// Book collection endpoints.
func (e *Endpoints) ListBooks() string {
	return "/books"
}

func (e *Endpoints) CreateBook() string {
	return "/books"
}

// Book item endpoints.
func (e *Endpoints) GetBook(bookID string) string {
	return fmt.Sprintf("/books/%s", url.PathEscape(bookID))
}

func (e *Endpoints) UpdateBook(bookID string) string {
	return fmt.Sprintf("/books/%s", url.PathEscape(bookID))
}

func (e *Endpoints) DeleteBook(bookID string) string {
	return fmt.Sprintf("/books/%s", url.PathEscape(bookID))
}

// Health and metadata endpoints.
func (e *Endpoints) HealthCheck() string {
	return "/health"
}

func (e *Endpoints) Index() string {
	return "/"
}
