package provider

import (
	"context"
	"fmt"
	"net/url"

	"github.com/valpere/reword/internal"
)

// DefaultMaxTokens caps the length of a rewrite for both providers.
const DefaultMaxTokens = 1000

// Client rewrites a fully built prompt using one provider's HTTP contract.
type Client interface {
	// Name is the provider name used in user-facing messages.
	Name() string
	Rewrite(ctx context.Context, prompt, credential string) (string, error)
}

// Registry maps each selectable provider to its client.
type Registry map[internal.Provider]Client

// Lookup returns the client registered for p.
func (r Registry) Lookup(p internal.Provider) (Client, error) {
	c, ok := r[p]
	if !ok || c == nil {
		return nil, fmt.Errorf("no client registered for provider %q", p)
	}
	return c, nil
}

// Error is returned when a provider answers with a non-success status or a
// body that lacks the expected text.
type Error struct {
	Provider  string
	Status    int
	Malformed bool
	Body      string
}

func (e *Error) Error() string {
	if e.Malformed {
		return fmt.Sprintf("%s API returned a malformed response", e.Provider)
	}
	return fmt.Sprintf("%s API error: %d", e.Provider, e.Status)
}

// Relay routes outbound calls through a forwarding endpoint. The target URL
// is query-escaped and appended to Prefix. A zero Relay calls the target
// directly.
type Relay struct {
	Prefix string
}

// URL returns the address to call for target.
func (r Relay) URL(target string) string {
	if r.Prefix == "" {
		return target
	}
	return r.Prefix + url.QueryEscape(target)
}
