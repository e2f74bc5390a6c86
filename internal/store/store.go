// Package store persists the user Configuration.
//
// Load never fails: an absent or malformed record yields the defaults.
// Save is best-effort: failures are logged and swallowed, because the
// record can always be re-entered by the user.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/valpere/reword/internal"
)

// ConfigStore loads and saves the single Configuration record. Text fields
// are stored as JSON strings, so a record saved with invalid UTF-8 loads
// back with U+FFFD in its place; Update rejects such records.
type ConfigStore interface {
	Load(ctx context.Context) internal.Configuration
	Save(ctx context.Context, c internal.Configuration)
}

// Update applies one mutation and writes the result through to s. A mutation
// that fails, or leaves the record invalid, is not saved.
func Update(ctx context.Context, s ConfigStore, mutate func(*internal.Configuration) error) (internal.Configuration, error) {
	c := s.Load(ctx)
	if err := mutate(&c); err != nil {
		return s.Load(ctx), err
	}
	if err := c.Validate(); err != nil {
		return s.Load(ctx), err
	}
	s.Save(ctx, c)
	return c, nil
}

// decode parses a persisted record. Fields missing from the record keep
// their defaults; unknown enum values make the whole record malformed.
func decode(data []byte) (internal.Configuration, error) {
	c := internal.DefaultConfiguration()
	if err := json.Unmarshal(data, &c); err != nil {
		return internal.DefaultConfiguration(), fmt.Errorf("failed to parse configuration: %w", err)
	}
	if c.SelectedProvider == "" {
		c.SelectedProvider = internal.DefaultConfiguration().SelectedProvider
	}
	if c.SelectedStyle == "" {
		c.SelectedStyle = internal.DefaultConfiguration().SelectedStyle
	}
	if err := c.Validate(); err != nil {
		return internal.DefaultConfiguration(), err
	}
	return c, nil
}

func encode(c internal.Configuration) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

func nopIfNil(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
