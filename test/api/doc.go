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

// Package api provides integration test utilities for the book catalog.
//
// # Targets
//
// By default the suites run hermetically against the in-process service in
// test/reference.  Setting BOOKCATALOG_BASE_URL, either in the environment
// or in test/.env, points them at a running service instead.  Either way
// the same scenarios run, so the reference service and the real one are
// held to the same contract.
//
// # Fixtures
//
// Books created through CreateBookWithCleanup are deleted by DeferCleanup
// whatever the outcome of the spec.  Specs must not assume anything about
// the catalog beyond what they created themselves, as an external service
// may be shared.
//
// # Update semantics
//
// Whether PUT merges or replaces is not pinned down by the service.
// The semantics suite probes which one is in effect and asserts the
// matching behaviour.  BOOKCATALOG_REFERENCE_UPDATE_MODE switches the
// reference service between the two.
package api
