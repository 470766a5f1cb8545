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

package books

import (
	"context"
	"net/http"

	"github.com/go-logr/logr"

	"github.com/unikorn-cloud/bookcatalog/pkg/assert"
	"github.com/unikorn-cloud/bookcatalog/pkg/types"

	"k8s.io/utils/ptr"
)

// UpdateSemantics describes what PUT does with fields that are omitted
// from the payload.
type UpdateSemantics string

const (
	// UpdateMerge keeps omitted fields.
	UpdateMerge UpdateSemantics = "merge"
	// UpdateReplace clears omitted fields.
	UpdateReplace UpdateSemantics = "replace"
	// UpdateUnknown is neither, e.g. some fields kept and others cleared.
	UpdateUnknown UpdateSemantics = "unknown"
)

// ProbeUpdateSemantics creates seed, updates only its availability and
// reads it back to see whether the untouched fields survived.  The seed
// book is deleted afterwards.
func ProbeUpdateSemantics(ctx context.Context, client *Client, token string, seed types.Book) (UpdateSemantics, error) {
	log := logr.FromContextOrDiscard(ctx)

	created, err := client.Create(ctx, seed, token)
	if err != nil {
		return UpdateUnknown, err
	}

	if err := assert.StatusCode(created, http.StatusCreated); err != nil {
		return UpdateUnknown, err
	}

	envelope, err := DecodeBook(created)
	if err != nil {
		return UpdateUnknown, err
	}

	id := envelope.Data.ID

	defer func() {
		if _, err := client.Delete(ctx, id, token); err != nil {
			log.Info("failed to delete probe book", "id", id, "error", err)
		}
	}()

	available := true
	if seed.Available != nil {
		available = *seed.Available
	}

	updated, err := client.Update(ctx, id, types.Book{Available: ptr.To(!available)}, token)
	if err != nil {
		return UpdateUnknown, err
	}

	// A replacing service may reject the partial payload outright.
	if updated.StatusCode == http.StatusBadRequest {
		log.Info("partial update rejected", "id", id)

		return UpdateReplace, nil
	}

	if err := assert.StatusCode(updated, http.StatusOK); err != nil {
		return UpdateUnknown, err
	}

	read, err := client.Get(ctx, id)
	if err != nil {
		return UpdateUnknown, err
	}

	if err := assert.StatusCode(read, http.StatusOK); err != nil {
		return UpdateUnknown, err
	}

	result, err := DecodeBook(read)
	if err != nil {
		return UpdateUnknown, err
	}

	semantics := classify(envelope.Data, result.Data)

	log.Info("update semantics probed", "id", id, "semantics", semantics)

	return semantics, nil
}

func classify(before, after types.Book) UpdateSemantics {
	kept := 0
	cleared := 0

	check := func(same, empty bool) {
		switch {
		case same:
			kept++
		case empty:
			cleared++
		}
	}

	check(after.Title == before.Title, after.Title == "")
	check(after.Author == before.Author, after.Author == "")
	check(after.ISBN == before.ISBN, after.ISBN == "")

	switch {
	case kept == 3:
		return UpdateMerge
	case cleared == 3:
		return UpdateReplace
	}

	return UpdateUnknown
}

// String implements fmt.Stringer.
func (s UpdateSemantics) String() string {
	return string(s)
}
