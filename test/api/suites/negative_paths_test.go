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
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/bookcatalog/pkg/assert/matchers"
	"github.com/unikorn-cloud/bookcatalog/pkg/books"
	"github.com/unikorn-cloud/bookcatalog/pkg/fixtures"
	"github.com/unikorn-cloud/bookcatalog/pkg/types"
	"github.com/unikorn-cloud/bookcatalog/test/api"
)

var _ = Describe("Error Handling", func() {
	var token string

	BeforeEach(func() {
		token = api.Token(ctx, client)
	})

	Context("When creating a book", func() {
		Describe("Given an invalid ISBN", func() {
			It("should reject the book", func() {
				resp, err := client.Books.Create(ctx, fixtures.NewBook().WithInvalidISBN().Build(), token)
				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(matchers.BeErrorEnvelope(http.StatusBadRequest))
				Expect(resp).To(matchers.HaveErrorMessageContaining("Invalid ISBN"))
				Expect(books.Classify(resp)).To(Equal(types.OutcomeValidation))
			})
		})

		Describe("Given missing required fields", func() {
			DescribeTable("should reject the book",
				func(builder *fixtures.BookBuilder) {
					resp, err := client.Books.Create(ctx, builder.Build(), token)
					Expect(err).NotTo(HaveOccurred())

					Expect(resp).To(matchers.BeErrorEnvelope(http.StatusBadRequest))
					Expect(resp).To(matchers.HaveErrorMessageContaining("required"))
				},
				Entry("missing title", fixtures.NewBook().WithoutTitle()),
				Entry("missing author", fixtures.NewBook().WithoutAuthor()),
				Entry("missing ISBN", fixtures.NewBook().WithoutISBN()),
				Entry("only a title", fixtures.NewBook().WithoutAuthor().WithoutISBN().WithoutPublishedYear().WithoutAvailable()),
			)
		})

		Describe("Given an implausible publication year", func() {
			DescribeTable("should reject the book",
				func(year int) {
					resp, err := client.Books.Create(ctx, fixtures.NewBook().WithPublishedYear(year).Build(), token)
					Expect(err).NotTo(HaveOccurred())
					Expect(resp).To(matchers.BeErrorEnvelope(http.StatusBadRequest))
				},
				Entry("too early", 999),
				Entry("far future", 3000),
				Entry("negative", -1),
			)
		})

		Describe("Given no credentials", func() {
			DescribeTable("should reject the book whatever the payload",
				func(builder *fixtures.BookBuilder) {
					resp, err := client.Books.CreateUnauthenticated(ctx, builder.Build())
					Expect(err).NotTo(HaveOccurred())
					Expect(resp).To(matchers.BeErrorEnvelope(http.StatusUnauthorized))
				},
				Entry("valid book", fixtures.NewBook()),
				Entry("invalid ISBN", fixtures.NewBook().WithInvalidISBN()),
				Entry("empty book", fixtures.NewBook().WithoutTitle().WithoutAuthor().WithoutISBN()),
			)
		})
	})

	Context("When modifying a book without credentials", func() {
		var created types.Book

		BeforeEach(func() {
			created = api.CreateBookWithCleanup(ctx, client, token, fixtures.NewBook().Build())
		})

		It("should reject the update and leave the book untouched", func() {
			resp, err := client.Books.UpdateUnauthenticated(ctx, created.ID, fixtures.NewBook().Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(matchers.BeErrorEnvelope(http.StatusUnauthorized))

			read, err := client.Books.Get(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(read).To(matchers.HaveJSONFieldEqual("data.title", created.Title))
		})

		It("should reject the deletion and leave the book in place", func() {
			resp, err := client.Books.DeleteUnauthenticated(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(matchers.BeErrorEnvelope(http.StatusUnauthorized))

			read, err := client.Books.Get(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(read).To(matchers.HaveStatusCode(http.StatusOK))
		})
	})

	Context("When updating with invalid data", func() {
		It("should reject an invalid ISBN", func() {
			created := api.CreateBookWithCleanup(ctx, client, token, fixtures.NewBook().Build())

			resp, err := client.Books.Update(ctx, created.ID, fixtures.NewBook().WithInvalidISBN().Build(), token)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(matchers.BeErrorEnvelope(http.StatusBadRequest))
			Expect(resp).To(matchers.HaveErrorMessageContaining("Invalid ISBN"))
		})
	})

	Context("When requesting an ID containing a path separator", func() {
		It("should stay within the book resource and return not found", func() {
			resp, err := client.Books.Get(ctx, "999/reviews")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			Expect(books.Classify(resp)).To(Equal(types.OutcomeNotFound))
		})
	})
})
