package account

import (
	"context"
	"fmt"
)

// contextCredential is a private key type for context credential values
type contextCredential string

// ContextCredentialsFlag is used for retrieving api credentials from context
const ContextCredentialsFlag contextCredential = "apicredentials"

const apiKeyDisplaySize = 16

// Credentials define parameters that allow for an authenticated request
type Credentials struct {
	Key        string
	Secret     string
	SubAccount string
}

// IsEmpty returns true if the underlying credentials type has not been
// filled with at least one item
func (c *Credentials) IsEmpty() bool {
	return c == nil || c.Key == "" && c.Secret == "" && c.SubAccount == ""
}

// String prints out basic credential info (obfuscated) to track key
// instances associated with exchanges
func (c *Credentials) String() string {
	obfuscated := c.Key
	if len(obfuscated) > apiKeyDisplaySize {
		obfuscated = obfuscated[:apiKeyDisplaySize]
	}
	return fmt.Sprintf("Key:[%s...] SubAccount:[%s]", obfuscated, c.SubAccount)
}

// DeployCredentialsToContext sets credentials for internal use to context
// which can override default credential values
func DeployCredentialsToContext(ctx context.Context, creds *Credentials) context.Context {
	if creds.IsEmpty() {
		return ctx
	}
	cpy := *creds
	return context.WithValue(ctx, ContextCredentialsFlag, &cpy)
}

// CredentialsFromContext returns credentials previously deployed to the
// context, if any
func CredentialsFromContext(ctx context.Context) (*Credentials, bool) {
	creds, ok := ctx.Value(ContextCredentialsFlag).(*Credentials)
	return creds, ok && !creds.IsEmpty()
}
