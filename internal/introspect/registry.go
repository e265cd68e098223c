package introspect

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
)

// Factory builds a dialect catalog over an open handle.
type Factory func(db *sqlx.DB) Catalog

type registration struct {
	sqlDriver string
	factory   Factory
}

var (
	registry = make(map[string]registration)
	mu       sync.RWMutex
)

// driverOrder is the order drivers are listed in; anything registered beyond
// it follows alphabetically.
var driverOrder = []string{"mysql", "mariadb", "pgsql", "sqlite", "sqlsrv"}

// Register makes a dialect available under driver. sqlDriver is the
// database/sql driver name used by Open.
func Register(driver, sqlDriver string, fn Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[driver] = registration{sqlDriver: sqlDriver, factory: fn}
}

// UnsupportedDriverError is returned for a driver identifier no dialect
// package registered.
type UnsupportedDriverError struct {
	Driver    string
	Supported []string
}

func (e *UnsupportedDriverError) Error() string {
	return fmt.Sprintf("Unsupported database driver: %s. Supported drivers are: %s.", e.Driver, strings.Join(e.Supported, ", "))
}

// NewIntrospector selects the dialect for driver and wraps a borrowed handle.
func NewIntrospector(driver string, db *sqlx.DB, connection string) (*Introspector, error) {
	reg, err := lookup(driver)
	if err != nil {
		return nil, err
	}
	return New(reg.factory(db), connection), nil
}

// Open connects to dsn with the dialect's database/sql driver. The returned
// introspector owns the connection; call Close when done.
func Open(ctx context.Context, driver, dsn, connection string) (*Introspector, error) {
	reg, err := lookup(driver)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.ConnectContext(ctx, reg.sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	i := New(reg.factory(db), connection)
	i.db = db
	return i, nil
}

// IsSupported reports whether driver has a registered dialect.
func IsSupported(driver string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[driver]
	return ok
}

// SupportedDrivers lists the registered driver identifiers.
func SupportedDrivers() []string {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]string, 0, len(registry))
	for _, d := range driverOrder {
		if _, ok := registry[d]; ok {
			out = append(out, d)
		}
	}
	var extra []string
	for d := range registry {
		if !slices.Contains(driverOrder, d) {
			extra = append(extra, d)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}

func lookup(driver string) (registration, error) {
	mu.RLock()
	reg, ok := registry[driver]
	mu.RUnlock()

	if !ok {
		return registration{}, &UnsupportedDriverError{Driver: driver, Supported: SupportedDrivers()}
	}
	return reg, nil
}
