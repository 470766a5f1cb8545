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

package fixtures

import (
	"github.com/unikorn-cloud/bookcatalog/pkg/config"
	"github.com/unikorn-cloud/bookcatalog/pkg/types"
)

// LoginBuilder builds login payloads.
type LoginBuilder struct {
	credentials types.Credentials
}

// ValidLogin returns the service's well known administrator credentials.
func ValidLogin() *LoginBuilder {
	return &LoginBuilder{
		credentials: types.Credentials{
			Username: config.DefaultUsername,
			Password: config.DefaultPassword,
		},
	}
}

// LoginFromConfig returns the configured default credentials.
func LoginFromConfig(c *config.Config) *LoginBuilder {
	return &LoginBuilder{
		credentials: types.Credentials{
			Username: c.Username,
			Password: c.Password,
		},
	}
}

// InvalidLogin returns credentials the service always rejects.
func InvalidLogin() *LoginBuilder {
	return &LoginBuilder{
		credentials: types.Credentials{
			Username: "invalid",
			Password: "invalid",
		},
	}
}

// WithUsername sets the username.
func (b *LoginBuilder) WithUsername(username string) *LoginBuilder {
	b.credentials.Username = username
	return b
}

// WithPassword sets the password.
func (b *LoginBuilder) WithPassword(password string) *LoginBuilder {
	b.credentials.Password = password
	return b
}

// WithoutUsername drops the username from the payload.
func (b *LoginBuilder) WithoutUsername() *LoginBuilder {
	b.credentials.Username = ""
	return b
}

// WithoutPassword drops the password from the payload.
func (b *LoginBuilder) WithoutPassword() *LoginBuilder {
	b.credentials.Password = ""
	return b
}

// Build returns the credentials.
func (b *LoginBuilder) Build() types.Credentials {
	return b.credentials
}
