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

package api

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/unikorn-cloud/bookcatalog/pkg/books"
	"github.com/unikorn-cloud/bookcatalog/pkg/config"
)

const (
	// ExternalEnvironment points the suites at a running service.  When
	// unset they run against the in-process reference service.
	ExternalEnvironment = "BOOKCATALOG_BASE_URL"

	// UpdateModeEnvironment selects the reference service's PUT behaviour,
	// either "replace" (the default) or "merge".
	UpdateModeEnvironment = "BOOKCATALOG_REFERENCE_UPDATE_MODE"
)

// TestConfig is the resolved suite configuration.
type TestConfig struct {
	*config.Config

	// External is true when BaseURL names a real service.
	External bool
	// UpdateMode is what the reference service does on PUT.  Ignored when
	// External.
	UpdateMode books.UpdateSemantics
}

// LoadTestConfig loads configuration from the environment and any .env file
// found, falling back to the built-in defaults.
func LoadTestConfig() (*TestConfig, error) {
	c, err := config.Load(&config.Options{
		EnvFiles: findEnvFiles(),
	})
	if err != nil {
		return nil, err
	}

	_, external := os.LookupEnv(ExternalEnvironment)

	mode := books.UpdateSemantics(os.Getenv(UpdateModeEnvironment))

	switch mode {
	case "":
		mode = books.UpdateReplace
	case books.UpdateMerge, books.UpdateReplace:
	default:
		return nil, fmt.Errorf("%w: %s must be %q or %q", config.ErrInvalidConfig, UpdateModeEnvironment, books.UpdateMerge, books.UpdateReplace)
	}

	testConfig := &TestConfig{
		Config:     c,
		External:   external,
		UpdateMode: mode,
	}

	return testConfig, nil
}

// findEnvFiles returns the .env files that exist.  Missing ones are fine
// in CI where variables are set directly.
func findEnvFiles() []string {
	candidates := []string{
		"../../../test/.env", // From test/api/suites directory
		".env",
	}

	var found []string

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			continue
		}

		found = append(found, absPath)
	}

	return found
}
