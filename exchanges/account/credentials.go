package account

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// contextCredential is a string flag for use with context values when setting
// credentials for a single call
type contextCredential string

const (
	// ContextCredentialsFlag used for retrieving api credentials from context
	ContextCredentialsFlag contextCredential = "apicredentials"

	apiKeyDisplaySize = 16
)

// Credential validation errors
var (
	ErrCredentialsAreEmpty = errors.New("credentials are empty")
	ErrRequiresAPIKey      = errors.New("requires API key but default/empty one set")
	ErrRequiresAPISecret   = errors.New("requires API secret but default/empty one set")
)

// Credentials define parameters that allow for an authenticated request
type Credentials struct {
	Key    string
	Secret string
}

// String prints out basic credential info (obfuscated) to track key instances
// associated with exchanges.
func (c *Credentials) String() string {
	if c == nil {
		return "Key:[]"
	}
	obfuscated := c.Key
	if len(obfuscated) > apiKeyDisplaySize {
		obfuscated = obfuscated[:apiKeyDisplaySize]
	}
	return fmt.Sprintf("Key:[%s...]", obfuscated)
}

// GoString keeps the secret out of %#v output
func (c *Credentials) GoString() string {
	return c.String()
}

// IsEmpty return true if the underlying credentials type has not been filled
// with at least one item.
func (c *Credentials) IsEmpty() bool {
	return c == nil || c.Key == "" && c.Secret == ""
}

// Validate checks both the key and the secret are set
func (c *Credentials) Validate() error {
	switch {
	case c.IsEmpty():
		return ErrCredentialsAreEmpty
	case c.Key == "":
		return ErrRequiresAPIKey
	case c.Secret == "":
		return ErrRequiresAPISecret
	}
	return nil
}

// Equal determines if the keys are the same.
// Secret omitted because of direct correlation with api key.
func (c *Credentials) Equal(other *Credentials) bool {
	return c != nil && other != nil && c.Key == other.Key
}

// ContextCredentialsStore protects the stored credentials for use in a context
type ContextCredentialsStore struct {
	creds *Credentials
	mu    sync.RWMutex
}

// Load stores provided credentials
func (c *ContextCredentialsStore) Load(creds *Credentials) {
	// Segregate from external call
	cpy := *creds
	c.mu.Lock()
	c.creds = &cpy
	c.mu.Unlock()
}

// Get returns the full credentials from the store
func (c *ContextCredentialsStore) Get() *Credentials {
	c.mu.RLock()
	creds := *c.creds
	c.mu.RUnlock()
	return &creds
}

// DeployCredentialsToContext sets credentials to context which override the
// exchange's default credentials for calls made with it. Empty credentials
// leave ctx untouched.
func DeployCredentialsToContext(ctx context.Context, creds *Credentials) context.Context {
	if creds.IsEmpty() {
		return ctx
	}
	store := &ContextCredentialsStore{}
	store.Load(creds)
	return context.WithValue(ctx, ContextCredentialsFlag, store)
}

// CredentialsFromContext returns credentials deployed to ctx, if any
func CredentialsFromContext(ctx context.Context) (*Credentials, bool) {
	store, ok := ctx.Value(ContextCredentialsFlag).(*ContextCredentialsStore)
	if !ok || store == nil {
		return nil, false
	}
	return store.Get(), true
}
