// Package exchange provides the shared base type every venue implementation
// embeds: endpoint management, credential storage and the transport handle.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tidemark-labs/goxchange/exchanges/account"
	"github.com/tidemark-labs/goxchange/exchanges/request"
)

// URL keys the REST roots a venue exposes. Contract venues commonly split
// linear and inverse products across hosts.
type URL int

// Endpoint key constants
const (
	Invalid URL = iota
	RestSpot
	RestUSDTMargined
	RestCoinMargined
	RestUser
)

var errEndpointNotFound = errors.New("endpoint not found")

// String implements the stringer interface
func (u URL) String() string {
	switch u {
	case RestSpot:
		return "RestSpotURL"
	case RestUSDTMargined:
		return "RestUSDTMarginedURL"
	case RestCoinMargined:
		return "RestCoinMarginedURL"
	case RestUser:
		return "RestUserURL"
	default:
		return ""
	}
}

// Endpoints stores the URLs for a venue, overridable at runtime so tests and
// alternate deployments can re-point hosts
type Endpoints struct {
	defaults map[URL]string
	mu       sync.RWMutex
}

// NewEndpoints returns an endpoint store populated with defaults
func NewEndpoints(defaults map[URL]string) *Endpoints {
	cpy := make(map[URL]string, len(defaults))
	for k, v := range defaults {
		cpy[k] = v
	}
	return &Endpoints{defaults: cpy}
}

// GetURL gets the endpoint for the supplied key
func (e *Endpoints) GetURL(key URL) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	u, ok := e.defaults[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", errEndpointNotFound, key)
	}
	return u, nil
}

// SetRunningURL overrides the endpoint for the supplied key
func (e *Endpoints) SetRunningURL(key URL, u string) {
	e.mu.Lock()
	e.defaults[key] = u
	e.mu.Unlock()
}

// API holds the endpoint store and default credentials for a venue
type API struct {
	Endpoints *Endpoints

	credMu      sync.RWMutex
	credentials *account.Credentials

	// AuthenticatedSupport is toggled when credentials are supplied
	AuthenticatedSupport bool
}

// Base stores the individual exchange information
type Base struct {
	Name      string
	Enabled   bool
	Verbose   bool
	API       API
	Requester *request.Requester
}

// SetCredentials stores the default signing credentials
func (b *Base) SetCredentials(key, secret, subAccount string) {
	b.API.credMu.Lock()
	defer b.API.credMu.Unlock()
	b.API.credentials = &account.Credentials{Key: key, Secret: secret, SubAccount: subAccount}
	b.API.AuthenticatedSupport = !b.API.credentials.IsEmpty()
}

// GetCredentials checks the context for credentials deployed for this call,
// falling back to the exchange defaults. The error wraps ErrCredentialsUnset
// so an authenticated call can fail before any request is built or sent.
func (b *Base) GetCredentials(ctx context.Context) (*account.Credentials, error) {
	if creds, ok := account.CredentialsFromContext(ctx); ok {
		return creds, nil
	}
	b.API.credMu.RLock()
	defer b.API.credMu.RUnlock()
	if b.API.credentials.IsEmpty() {
		return nil, fmt.Errorf("%s %w", b.Name, ErrCredentialsUnset)
	}
	cpy := *b.API.credentials
	return &cpy, nil
}

// AreCredentialsValid returns whether an authenticated request could be
// signed right now
func (b *Base) AreCredentialsValid(ctx context.Context) bool {
	_, err := b.GetCredentials(ctx)
	return err == nil
}
