package store

import (
	"context"

	"github.com/rubixchain/rubix-dapp/pkg/operation"
)

// Store records the status of smart contract requests, keyed by
// tracking key.
type Store interface {
	String() string
	Start() error
	Stop() error

	// Create inserts id with status unless it already exists. The
	// returned bool reports whether a row was inserted.
	Create(ctx context.Context, id string, status operation.Status) (bool, error)

	// Get returns the status of id, found is false for unknown ids.
	Get(ctx context.Context, id string) (status operation.Status, found bool, err error)

	// Update sets the status of id, inserting it if missing.
	Update(ctx context.Context, id string, status operation.Status) error
}
