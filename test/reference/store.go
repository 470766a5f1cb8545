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

package reference

import (
	"regexp"
	"slices"
	"strconv"
	"sync"

	"github.com/unikorn-cloud/bookcatalog/pkg/types"

	"k8s.io/utils/ptr"
)

// isbnSeparators are stripped before the digit check.
var isbnSeparators = regexp.MustCompile(`[-\s]`)

var isbnDigits = regexp.MustCompile(`^(?:\d{10}|\d{13})$`)

// ValidISBN accepts 10 or 13 digits with optional hyphens and spaces.
func ValidISBN(isbn string) bool {
	if isbn == "" {
		return false
	}

	return isbnDigits.MatchString(isbnSeparators.ReplaceAllString(isbn, ""))
}

// SeedBooks returns the catalog's initial contents.
func SeedBooks() []types.Book {
	book := func(id, title, author, isbn string, year int, available bool) types.Book {
		return types.Book{
			ID:            id,
			Title:         title,
			Author:        author,
			ISBN:          isbn,
			PublishedYear: ptr.To(year),
			Available:     ptr.To(available),
		}
	}

	return []types.Book{
		book("1", "The Pragmatic Programmer", "Andy Hunt and Dave Thomas", "978-0135957059", 1999, true),
		book("2", "Clean Code", "Robert C. Martin", "978-0132350884", 2008, true),
		book("3", "Design Patterns", "Erich Gamma, Richard Helm, Ralph Johnson, John Vlissides", "978-0201633610", 1994, false),
		book("4", "Refactoring", "Martin Fowler", "978-0134757599", 2018, true),
		book("5", "Test Driven Development", "Kent Beck", "978-0321146530", 2002, true),
		book("6", "The Art of Software Testing", "Glenford J. Myers", "978-1118031964", 2011, true),
		book("7", "Continuous Delivery", "Jez Humble and David Farley", "978-0321601919", 2010, false),
	}
}

// store is an ordered, in-memory book collection.
type store struct {
	lock   sync.RWMutex
	books  []types.Book
	nextID int
}

func newStore() *store {
	s := &store{}
	s.reset()

	return s
}

func (s *store) reset() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.books = SeedBooks()
	s.nextID = len(s.books) + 1
}

func (s *store) list() []types.Book {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return slices.Clone(s.books)
}

func (s *store) get(id string) (types.Book, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	i := slices.IndexFunc(s.books, func(b types.Book) bool {
		return b.ID == id
	})

	if i < 0 {
		return types.Book{}, false
	}

	return s.books[i], true
}

func (s *store) create(book types.Book) types.Book {
	s.lock.Lock()
	defer s.lock.Unlock()

	book.ID = strconv.Itoa(s.nextID)
	s.nextID++

	s.books = append(s.books, book)

	return book
}

// update applies fn to the stored book and returns the result.
func (s *store) update(id string, fn func(types.Book) types.Book) (types.Book, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	i := slices.IndexFunc(s.books, func(b types.Book) bool {
		return b.ID == id
	})

	if i < 0 {
		return types.Book{}, false
	}

	updated := fn(s.books[i])
	updated.ID = s.books[i].ID

	s.books[i] = updated

	return updated, true
}

func (s *store) remove(id string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	i := slices.IndexFunc(s.books, func(b types.Book) bool {
		return b.ID == id
	})

	if i < 0 {
		return false
	}

	s.books = slices.Delete(s.books, i, i+1)

	return true
}
