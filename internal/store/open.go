package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Store drivers accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
	DriverMemory = "memory"
)

// Open builds the ConfigStore for driver. The returned close function is
// never nil.
func Open(ctx context.Context, driver, path string, log *zap.Logger) (ConfigStore, func() error, error) {
	noop := func() error { return nil }

	switch driver {
	case DriverSQLite, "":
		s, err := NewSQLite(ctx, path, log)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case DriverFile:
		return NewFile(path, log), noop, nil
	case DriverMemory:
		return NewMemory(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown store driver %q (must be 'sqlite', 'file' or 'memory')", driver)
	}
}
