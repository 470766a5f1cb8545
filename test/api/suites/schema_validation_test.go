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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/bookcatalog/pkg/books"
	"github.com/unikorn-cloud/bookcatalog/pkg/fixtures"
	"github.com/unikorn-cloud/bookcatalog/pkg/request"
	"github.com/unikorn-cloud/bookcatalog/test/api"
)

var _ = Describe("Response Schemas", func() {
	Context("When logging in", func() {
		It("should return a conforming token response", func() {
			resp, err := client.Auth.Login(ctx, fixtures.LoginFromConfig(config.Config).Build())
			Expect(err).NotTo(HaveOccurred())

			api.ExpectConforms(ctx, client, resp)
		})

		It("should return a conforming error for bad credentials", func() {
			resp, err := client.Auth.Login(ctx, fixtures.InvalidLogin().Build())
			Expect(err).NotTo(HaveOccurred())

			api.ExpectConforms(ctx, client, resp)
		})
	})

	Context("When working with books", func() {
		var token string

		BeforeEach(func() {
			token = api.Token(ctx, client)
		})

		It("should return a conforming collection", func() {
			resp, err := client.Books.List(ctx)
			Expect(err).NotTo(HaveOccurred())

			api.ExpectConforms(ctx, client, resp)
		})

		It("should return a conforming book", func() {
			created := api.CreateBookWithCleanup(ctx, client, token, fixtures.NewBook().Build())

			resp, err := client.Books.Get(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())

			api.ExpectConforms(ctx, client, resp)
		})

		It("should return a conforming creation response", func() {
			resp, err := client.Books.Create(ctx, fixtures.NewBook().Build(), token)
			Expect(err).NotTo(HaveOccurred())

			api.ExpectConforms(ctx, client, resp)

			DeferCleanup(func(ctx SpecContext) {
				if envelope, err := books.DecodeBook(resp); err == nil {
					_, _ = client.Books.Delete(ctx, envelope.Data.ID, token)
				}
			})
		})

		It("should return a conforming deletion response", func() {
			created := api.CreateBookWithCleanup(ctx, client, token, fixtures.NewBook().Build())

			resp, err := client.Books.Delete(ctx, created.ID, token)
			Expect(err).NotTo(HaveOccurred())

			api.ExpectConforms(ctx, client, resp)
		})

		DescribeTable("should return conforming errors",
			func(call func() (*request.Response, error)) {
				resp, err := call()
				Expect(err).NotTo(HaveOccurred())

				api.ExpectConforms(ctx, client, resp)
			},
			Entry("not found", func() (*request.Response, error) {
				return client.Books.Get(ctx, "999")
			}),
			Entry("validation", func() (*request.Response, error) {
				return client.Books.Create(ctx, fixtures.NewBook().WithInvalidISBN().Build(), token)
			}),
			Entry("unauthenticated", func() (*request.Response, error) {
				return client.Books.CreateUnauthenticated(ctx, fixtures.NewBook().Build())
			}),
		)
	})

	Context("When checking the service", func() {
		It("should return a conforming health report", func() {
			resp, err := client.Books.Health(ctx)
			Expect(err).NotTo(HaveOccurred())

			api.ExpectConforms(ctx, client, resp)
		})

		It("should return a conforming index", func() {
			resp, err := client.Books.Index(ctx)
			Expect(err).NotTo(HaveOccurred())

			api.ExpectConforms(ctx, client, resp)
		})
	})
})
