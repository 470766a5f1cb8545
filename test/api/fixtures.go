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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"
	"net/http"
	"slices"

	"github.com/spjmurray/go-util/pkg/set"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/bookcatalog/pkg/assert/matchers"
	"github.com/unikorn-cloud/bookcatalog/pkg/books"
	"github.com/unikorn-cloud/bookcatalog/pkg/request"
	"github.com/unikorn-cloud/bookcatalog/pkg/types"
)

// Token logs in with the configured credentials.  The spec fails if that
// is not possible.
func Token(ctx context.Context, client *APIClient) string {
	token, err := client.Auth.LoginWithDefaultCredentials(ctx)
	Expect(err).NotTo(HaveOccurred())
	Expect(token.Value).NotTo(BeEmpty())

	return token.Value
}

// CreateBookWithCleanup creates a book and schedules its deletion.  The
// cleanup runs whether the spec passes or fails so specs never need to
// delete what they create.
func CreateBookWithCleanup(ctx context.Context, client *APIClient, token string, book types.Book) types.Book {
	resp, err := client.Books.Create(ctx, book, token)
	Expect(err).NotTo(HaveOccurred())

	if resp.StatusCode != http.StatusCreated {
		LogTraceContext(resp)
	}

	Expect(resp).To(matchers.HaveStatusCode(http.StatusCreated))
	Expect(resp).To(matchers.HaveJSONField("data.id"))

	envelope, err := books.DecodeBook(resp)
	Expect(err).NotTo(HaveOccurred())

	id := envelope.Data.ID

	GinkgoWriter.Printf("Created book with ID: %s\n", id)

	DeferCleanup(func(ctx SpecContext) {
		resp, err := client.Books.Delete(ctx, id, token)

		switch {
		case err != nil:
			GinkgoWriter.Printf("Warning: Failed to delete book %s: %v\n", id, err)
		case resp.StatusCode == http.StatusNotFound:
			GinkgoWriter.Printf("Book %s already deleted\n", id)
		case resp.StatusCode != http.StatusOK:
			GinkgoWriter.Printf("Warning: Failed to delete book %s: status %d\n", id, resp.StatusCode)
			LogTraceContext(resp)
		default:
			GinkgoWriter.Printf("Successfully deleted book: %s\n", id)
		}
	})

	return envelope.Data
}

// ListBooks lists the catalog, checking the envelope is well formed.
func ListBooks(ctx context.Context, client *APIClient) []types.Book {
	resp, err := client.Books.List(ctx)
	Expect(err).NotTo(HaveOccurred())
	Expect(resp).To(matchers.BeSuccessEnvelopeWithData())
	Expect(resp).To(matchers.HaveConsistentCount())

	envelope, err := books.DecodeBooks(resp)
	Expect(err).NotTo(HaveOccurred())

	return envelope.Data
}

// BookIDs returns the set of IDs in a collection.
func BookIDs(list []types.Book) set.Set[string] {
	ids := make([]string, len(list))

	for i := range list {
		ids[i] = list[i].ID
	}

	return set.New[string](ids...)
}

// VerifyBookPresence checks every expected ID is listed.
func VerifyBookPresence(list []types.Book, expected ...string) {
	missing := set.New[string](expected...).Difference(BookIDs(list))
	Expect(slices.Collect(missing.All())).To(BeEmpty(), "Expected books to be present in the list")
}

// VerifyBookAbsence checks no unexpected ID is listed.
func VerifyBookAbsence(list []types.Book, unexpected ...string) {
	present := set.New[string](unexpected...).Intersection(BookIDs(list))
	Expect(slices.Collect(present.All())).To(BeEmpty(), "Expected books to be absent from the list")
}

// ExpectConforms checks a response against the OpenAPI contract.
func ExpectConforms(ctx context.Context, client *APIClient, resp *request.Response) {
	err := client.Schema.Validate(ctx, resp)
	if err != nil {
		LogTraceContext(resp)
	}

	Expect(err).NotTo(HaveOccurred())
}
