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

var _ = Describe("Update Semantics", func() {
	var (
		token     string
		semantics books.UpdateSemantics
	)

	BeforeEach(func() {
		token = api.Token(ctx, client)

		var err error

		semantics, err = books.ProbeUpdateSemantics(ctx, client.Books, token, fixtures.NewBook().Build())
		Expect(err).NotTo(HaveOccurred())

		GinkgoWriter.Printf("PUT semantics in effect: %s\n", semantics)
	})

	Context("When probing the service", func() {
		It("should detect a consistent behaviour", func() {
			Expect(semantics).To(BeElementOf(books.UpdateMerge, books.UpdateReplace))
		})

		It("should detect the configured behaviour of the reference service", func() {
			if config.External {
				Skip("update mode of an external service is not configured here")
			}

			Expect(semantics).To(Equal(config.UpdateMode))
		})
	})

	Context("When updating only the title", func() {
		It("should treat omitted fields according to the detected behaviour", func() {
			original := fixtures.NewBook().WithAvailable(true).Build()
			created := api.CreateBookWithCleanup(ctx, client, token, original)

			resp, err := client.Books.Update(ctx, created.ID, types.Book{Title: "Refactoring"}, token)
			Expect(err).NotTo(HaveOccurred())

			if semantics == books.UpdateReplace && resp.StatusCode != http.StatusOK {
				// Rejecting partial payloads is a valid way to replace.
				Expect(books.Classify(resp)).To(Equal(types.OutcomeValidation))
				return
			}

			Expect(resp).To(matchers.BeSuccessEnvelopeWithData())

			read, err := client.Books.Get(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())

			envelope, err := books.DecodeBook(read)
			Expect(err).NotTo(HaveOccurred())

			Expect(envelope.Data.ID).To(Equal(created.ID))
			Expect(envelope.Data.Title).To(Equal("Refactoring"))

			switch semantics {
			case books.UpdateMerge:
				Expect(envelope.Data.Author).To(Equal(original.Author))
				Expect(envelope.Data.ISBN).To(Equal(original.ISBN))
				Expect(envelope.Data.PublishedYear).To(Equal(original.PublishedYear))
				Expect(envelope.Data.Available).To(Equal(original.Available))
			case books.UpdateReplace:
				Expect(envelope.Data.Author).To(BeEmpty())
				Expect(envelope.Data.ISBN).To(BeEmpty())
			case books.UpdateUnknown:
				Fail("update semantics could not be determined")
			}
		})
	})
})
