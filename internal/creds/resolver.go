// Package creds resolves per-source API credentials. Resolution order is an
// explicit priority list: programmatic overrides, then the process
// environment, then a .env file in the working directory.
package creds

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
)

// Credential holds whichever secret shape a source needs: a single token
// (Brave) or a basic-auth login/password pair (DataForSEO)
type Credential struct {
	Token    string
	Login    string
	Password string
}

// Resolver looks up the credential for a source by name. A false return
// means the source has no credentials configured and must be skipped, which
// is not an error condition.
type Resolver interface {
	Lookup(source string) (Credential, bool)
}

// envKeys maps source names to the environment variables that configure them
var envKeys = map[string]struct {
	token    string
	login    string
	password string
}{
	"dataforseo": {login: "DATAFORSEO_LOGIN", password: "DATAFORSEO_PASSWORD"},
	"brave":      {token: "BRAVE_API_KEY"},
}

// EnvResolver is the default Resolver. The .env file is loaded lazily and at
// most once; godotenv never overrides variables already present in the
// environment, so the process environment keeps precedence.
type EnvResolver struct {
	mu        sync.Mutex
	overrides map[string]Credential
	dotenv    sync.Once
}

// NewEnvResolver returns a resolver backed by the environment and an
// optional .env file
func NewEnvResolver() *EnvResolver {
	return &EnvResolver{overrides: make(map[string]Credential)}
}

// SetOverride pins a credential for a source, taking precedence over any
// environment configuration. Useful for tests and embedding.
func (r *EnvResolver) SetOverride(source string, cred Credential) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[source] = cred
}

// Lookup implements Resolver
func (r *EnvResolver) Lookup(source string) (Credential, bool) {
	r.mu.Lock()
	cred, ok := r.overrides[source]
	r.mu.Unlock()
	if ok {
		return cred, true
	}

	keys, known := envKeys[source]
	if !known {
		return Credential{}, false
	}

	r.dotenv.Do(func() {
		// best effort: a missing .env file is the normal case
		_ = godotenv.Load()
	})

	if keys.token != "" {
		token := os.Getenv(keys.token)
		if token == "" {
			return Credential{}, false
		}
		return Credential{Token: token}, true
	}

	login := os.Getenv(keys.login)
	password := os.Getenv(keys.password)
	if login == "" || password == "" {
		return Credential{}, false
	}
	return Credential{Login: login, Password: password}, true
}

// StaticResolver resolves from a fixed map only. Sources absent from the map
// are reported as unconfigured.
type StaticResolver map[string]Credential

// Lookup implements Resolver
func (r StaticResolver) Lookup(source string) (Credential, bool) {
	cred, ok := r[source]
	return cred, ok
}
