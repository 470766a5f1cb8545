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

// Package fixtures builds request payloads for tests, both valid ones and
// deliberately broken ones.
package fixtures

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/unikorn-cloud/bookcatalog/pkg/types"

	"k8s.io/apimachinery/pkg/util/rand"
	"k8s.io/utils/ptr"
)

const (
	// InvalidISBNValue is an ISBN the service always rejects.
	InvalidISBNValue = "invalid-isbn-123"

	minYear = 1900
	maxYear = 2025
)

//nolint:gochecknoglobals
var (
	titleAdjectives = []string{"Practical", "Effective", "Modern", "Pragmatic", "Concurrent", "Distributed", "Idiomatic", "Reliable"}
	titleSubjects   = []string{"Testing", "Systems", "Networking", "Architecture", "Refactoring", "Observability", "Algorithms", "Delivery"}
	givenNames      = []string{"Ada", "Grace", "Edsger", "Barbara", "Donald", "Margaret", "Ken", "Frances"}
	familyNames     = []string{"Lovelace", "Hopper", "Dijkstra", "Liskov", "Knuth", "Hamilton", "Thompson", "Allen"}
)

func pick(values []string) string {
	return values[rand.Intn(len(values))]
}

// RandomTitle returns a unique, human readable title.
func RandomTitle() string {
	return fmt.Sprintf("%s %s %s", pick(titleAdjectives), pick(titleSubjects), strings.SplitN(uuid.NewString(), "-", 2)[0])
}

// RandomAuthor returns a plausible author name.
func RandomAuthor() string {
	return pick(givenNames) + " " + pick(familyNames)
}

// RandomISBN returns "978" followed by ten random digits.  It is syntactically
// valid for the service but has no check digit so is not a real ISBN-13.
func RandomISBN() string {
	var b strings.Builder

	b.WriteString("978")

	for range 10 {
		b.WriteByte(byte('0' + rand.Intn(10)))
	}

	return b.String()
}

// InvalidISBN returns an ISBN the service always rejects.
func InvalidISBN() string {
	return InvalidISBNValue
}

// BookBuilder builds book payloads.
type BookBuilder struct {
	book types.Book
}

// NewBook returns a builder seeded with random, valid data.
func NewBook() *BookBuilder {
	return &BookBuilder{
		book: types.Book{
			Title:         RandomTitle(),
			Author:        RandomAuthor(),
			ISBN:          RandomISBN(),
			PublishedYear: ptr.To(rand.IntnRange(minYear, maxYear)),
			Available:     ptr.To(true),
		},
	}
}

// ValidBook returns a builder for a well known book.
func ValidBook() *BookBuilder {
	return &BookBuilder{
		book: types.Book{
			Title:         "Test Driven Development",
			Author:        "Kent Beck",
			ISBN:          "978-0321146533",
			PublishedYear: ptr.To(2002),
			Available:     ptr.To(true),
		},
	}
}

// WithTitle sets the title.
func (b *BookBuilder) WithTitle(title string) *BookBuilder {
	b.book.Title = title
	return b
}

// WithAuthor sets the author.
func (b *BookBuilder) WithAuthor(author string) *BookBuilder {
	b.book.Author = author
	return b
}

// WithISBN sets the ISBN.
func (b *BookBuilder) WithISBN(isbn string) *BookBuilder {
	b.book.ISBN = isbn
	return b
}

// WithInvalidISBN sets an ISBN the service rejects.
func (b *BookBuilder) WithInvalidISBN() *BookBuilder {
	return b.WithISBN(InvalidISBN())
}

// WithPublishedYear sets the year.
func (b *BookBuilder) WithPublishedYear(year int) *BookBuilder {
	b.book.PublishedYear = ptr.To(year)
	return b
}

// WithAvailable sets availability.
func (b *BookBuilder) WithAvailable(available bool) *BookBuilder {
	b.book.Available = ptr.To(available)
	return b
}

// WithoutTitle drops the title.
func (b *BookBuilder) WithoutTitle() *BookBuilder {
	b.book.Title = ""
	return b
}

// WithoutAuthor drops the author.
func (b *BookBuilder) WithoutAuthor() *BookBuilder {
	b.book.Author = ""
	return b
}

// WithoutISBN drops the ISBN.
func (b *BookBuilder) WithoutISBN() *BookBuilder {
	b.book.ISBN = ""
	return b
}

// WithoutPublishedYear drops the year so the service default applies.
func (b *BookBuilder) WithoutPublishedYear() *BookBuilder {
	b.book.PublishedYear = nil
	return b
}

// WithoutAvailable drops availability so the service default applies.
func (b *BookBuilder) WithoutAvailable() *BookBuilder {
	b.book.Available = nil
	return b
}

// Build returns a copy of the payload.  The builder may be reused.
func (b *BookBuilder) Build() types.Book {
	book := b.book

	if book.PublishedYear != nil {
		book.PublishedYear = ptr.To(*book.PublishedYear)
	}

	if book.Available != nil {
		book.Available = ptr.To(*book.Available)
	}

	return book
}
