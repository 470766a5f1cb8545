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
	"github.com/unikorn-cloud/bookcatalog/test/api"
)

var _ = Describe("Books CRUD", func() {
	var token string

	BeforeEach(func() {
		token = api.Token(ctx, client)
	})

	Context("When listing books", func() {
		It("should return a consistent collection envelope", func() {
			resp, err := client.Books.List(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(resp).To(matchers.BeSuccessEnvelopeWithData())
			Expect(resp).To(matchers.HaveConsistentCount())
			Expect(resp).To(matchers.RespondWithin(config.Timeout))
		})

		It("should include newly created books", func() {
			first := api.CreateBookWithCleanup(ctx, client, token, fixtures.NewBook().Build())
			second := api.CreateBookWithCleanup(ctx, client, token, fixtures.NewBook().Build())

			api.VerifyBookPresence(api.ListBooks(ctx, client), first.ID, second.ID)
		})
	})

	Context("When creating a book", func() {
		Describe("Given a complete book", func() {
			It("should assign an ID and echo the book", func() {
				book := fixtures.ValidBook().
					WithTitle("Clean Code").
					WithAuthor("Robert C. Martin").
					WithISBN("978-0132350884").
					WithPublishedYear(2008).
					Build()

				resp, err := client.Books.Create(ctx, book, token)
				Expect(err).NotTo(HaveOccurred())

				if envelope, err := books.DecodeBook(resp); err == nil && envelope.Data.ID != "" {
					id := envelope.Data.ID

					DeferCleanup(func(ctx SpecContext) {
						deleted, err := client.Books.Delete(ctx, id, token)
						Expect(err).NotTo(HaveOccurred())
						Expect(deleted.StatusCode).To(BeElementOf(http.StatusOK, http.StatusNotFound))
					})
				}

				Expect(resp).To(matchers.HaveStatusCode(http.StatusCreated))
				Expect(resp).To(matchers.HaveJSONFieldEqual("success", true))
				Expect(resp).To(matchers.HaveJSONField("data"))
				Expect(resp).To(matchers.HaveJSONField("data.id"))
				Expect(resp).To(matchers.HaveJSONFieldEqual("data.title", "Clean Code"))
				Expect(resp).To(matchers.HaveJSONFieldEqual("data.author", "Robert C. Martin"))
				Expect(resp).To(matchers.HaveJSONFieldEqual("data.isbn", "978-0132350884"))
				Expect(resp).To(matchers.HaveJSONFieldEqual("data.publishedYear", 2008))
				Expect(resp).To(matchers.HaveJSONFieldEqual("message", "Book created successfully"))
			})
		})

		Describe("Given a book without optional fields", func() {
			It("should apply the service defaults", func() {
				created := api.CreateBookWithCleanup(ctx, client, token, fixtures.NewBook().WithoutPublishedYear().WithoutAvailable().Build())

				resp, err := client.Books.Get(ctx, created.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(matchers.BeSuccessEnvelopeWithData())
				Expect(resp).To(matchers.HaveJSONFieldEqual("data.available", true))
			})
		})
	})

	Context("When reading a book", func() {
		Describe("Given the book exists", func() {
			It("should return the submitted fields", func() {
				book := fixtures.NewBook().Build()
				created := api.CreateBookWithCleanup(ctx, client, token, book)

				resp, err := client.Books.Get(ctx, created.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(matchers.BeSuccessEnvelopeWithData())

				envelope, err := books.DecodeBook(resp)
				Expect(err).NotTo(HaveOccurred())

				book.ID = created.ID
				Expect(envelope.Data).To(Equal(book))
			})
		})

		Describe("Given the book does not exist", func() {
			It("should return not found", func() {
				resp, err := client.Books.Get(ctx, "999")
				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(matchers.BeErrorEnvelope(http.StatusNotFound))
				Expect(resp).To(matchers.HaveErrorMessageContaining("not found"))
			})
		})
	})

	Context("When updating a book", func() {
		Describe("Given a complete replacement", func() {
			It("should store the new values and keep the ID", func() {
				created := api.CreateBookWithCleanup(ctx, client, token, fixtures.NewBook().Build())

				replacement := fixtures.NewBook().WithAvailable(false).Build()

				resp, err := client.Books.Update(ctx, created.ID, replacement, token)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(matchers.BeSuccessEnvelopeWithData())
				Expect(resp).To(matchers.HaveJSONFieldEqual("data.id", created.ID))

				read, err := client.Books.Get(ctx, created.ID)
				Expect(err).NotTo(HaveOccurred())

				envelope, err := books.DecodeBook(read)
				Expect(err).NotTo(HaveOccurred())

				replacement.ID = created.ID
				Expect(envelope.Data).To(Equal(replacement))
			})
		})

		Describe("Given the book does not exist", func() {
			It("should return not found", func() {
				resp, err := client.Books.Update(ctx, "999", fixtures.NewBook().Build(), token)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(matchers.BeErrorEnvelope(http.StatusNotFound))
			})
		})
	})

	Context("When deleting a book", func() {
		Describe("Given the book exists", func() {
			It("should delete it terminally", func() {
				created := api.CreateBookWithCleanup(ctx, client, token, fixtures.NewBook().Build())

				resp, err := client.Books.Delete(ctx, created.ID, token)
				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(matchers.HaveStatusCode(http.StatusOK))
				Expect(resp).To(matchers.HaveJSONFieldEqual("message", "Book deleted successfully"))
				Expect(resp).To(matchers.HaveJSONFieldEqual("deletedId", created.ID))

				read, err := client.Books.Get(ctx, created.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(read).To(matchers.BeErrorEnvelope(http.StatusNotFound))

				api.VerifyBookAbsence(api.ListBooks(ctx, client), created.ID)
			})
		})

		Describe("Given the book does not exist", func() {
			It("should return not found", func() {
				resp, err := client.Books.Delete(ctx, "999", token)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(matchers.BeErrorEnvelope(http.StatusNotFound))
			})
		})
	})
})
