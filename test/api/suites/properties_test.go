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

//nolint:testpackage,revive // test package in suites is standard for these tests, dot imports standard for Ginkgo
package suites

import (
	"errors"
	"net/http"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/bookcatalog/pkg/assert"
	"github.com/unikorn-cloud/bookcatalog/pkg/books"
	"github.com/unikorn-cloud/bookcatalog/pkg/fixtures"
	"github.com/unikorn-cloud/bookcatalog/pkg/request"
	"github.com/unikorn-cloud/bookcatalog/pkg/types"
	"github.com/unikorn-cloud/bookcatalog/test/api"
)

// Each property hits the service, so keep the sample small.
const minSuccessfulTests = 20

func newProperties() *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = minSuccessfulTests

	return gopter.NewProperties(parameters)
}

// holds logs a failed check and reports whether the property held.
func holds(err error) bool {
	if err != nil {
		GinkgoWriter.Printf("property violated: %v\n", err)
		return false
	}

	return true
}

func rejectedWith(status int) func(*request.Response, error) bool {
	return func(resp *request.Response, err error) bool {
		if err != nil {
			return holds(err)
		}

		return holds(assert.Error(resp, status))
	}
}

// roundTrip creates book, checks it reads back as submitted, deletes it
// and checks it is gone.
func roundTrip(book types.Book, token string) error {
	created, err := client.Books.Create(ctx, book, token)
	if err != nil {
		return err
	}

	if err := assert.StatusCode(created, http.StatusCreated); err != nil {
		return err
	}

	envelope, err := books.DecodeBook(created)
	if err != nil {
		return err
	}

	id := envelope.Data.ID

	read, err := client.Books.Get(ctx, id)
	if err != nil {
		return err
	}

	readErr := assert.All(
		assert.SuccessWithData(read),
		assert.FieldEquals(read, "data.title", book.Title),
		assert.FieldEquals(read, "data.author", book.Author),
		assert.FieldEquals(read, "data.isbn", book.ISBN),
		assert.FieldEquals(read, "data.publishedYear", *book.PublishedYear),
		assert.FieldEquals(read, "data.available", *book.Available),
	)

	deleted, err := client.Books.Delete(ctx, id, token)
	if err != nil {
		return errors.Join(readErr, err)
	}

	if err := assert.StatusCode(deleted, http.StatusOK); err != nil {
		return errors.Join(readErr, err)
	}

	gone, err := client.Books.Get(ctx, id)
	if err != nil {
		return errors.Join(readErr, err)
	}

	return errors.Join(readErr, assert.Error(gone, http.StatusNotFound))
}

var _ = Describe("Properties", func() {
	var (
		token    string
		reporter gopter.Reporter
	)

	BeforeEach(func() {
		token = api.Token(ctx, client)
		reporter = gopter.NewFormatedReporter(true, 80, GinkgoWriter)
	})

	It("should round trip any valid book until it is deleted", func() {
		properties := newProperties()

		properties.Property("create, read and delete", prop.ForAll(
			func(title string, year int, available bool) bool {
				book := fixtures.NewBook().WithTitle(title).WithPublishedYear(year).WithAvailable(available).Build()

				return holds(roundTrip(book, token))
			},
			gen.Identifier(),
			gen.IntRange(1000, 2025),
			gen.Bool(),
		))

		Expect(properties.Run(reporter)).To(BeTrue())
	})

	It("should reject any malformed ISBN", func() {
		properties := newProperties()

		properties.Property("invalid ISBN", prop.ForAll(
			func(suffix string) bool {
				resp, err := client.Books.Create(ctx, fixtures.NewBook().WithISBN("x-"+suffix).Build(), token)
				if err != nil {
					return holds(err)
				}

				return holds(assert.All(
					assert.Error(resp, http.StatusBadRequest),
					assert.ErrorMessageContains(resp, "Invalid ISBN"),
				))
			},
			gen.AlphaString(),
		))

		Expect(properties.Run(reporter)).To(BeTrue())
	})

	It("should reject any year before 1000", func() {
		properties := newProperties()

		// Zero is treated as no year at all.
		properties.Property("early year", prop.ForAll(
			func(year int) bool {
				return rejectedWith(http.StatusBadRequest)(client.Books.Create(ctx, fixtures.NewBook().WithPublishedYear(year).Build(), token))
			},
			gen.IntRange(1, 999),
		))

		Expect(properties.Run(reporter)).To(BeTrue())
	})

	It("should reject any unauthenticated creation", func() {
		properties := newProperties()

		properties.Property("unauthenticated", prop.ForAll(
			func(title string, isbn bool) bool {
				builder := fixtures.NewBook().WithTitle(title)
				if isbn {
					builder = builder.WithInvalidISBN()
				}

				return rejectedWith(http.StatusUnauthorized)(client.Books.CreateUnauthenticated(ctx, builder.Build()))
			},
			gen.AlphaString(),
			gen.Bool(),
		))

		Expect(properties.Run(reporter)).To(BeTrue())
	})
})
