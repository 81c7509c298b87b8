package atoms

import "context"

// Dataset is the read contract for an opened, queryable collection of
// atomistic structures and their property values, filtered to the property
// set requested at open time.  Implementations are owned by the caller after
// construction and must be closed when no longer needed.
type Dataset interface {
	// Count returns the number of structures in the dataset.
	Count(ctx context.Context) (int, error)

	// Get returns the structure at the given zero-based index with its
	// requested property values populated.
	Get(ctx context.Context, index int) (*Atoms, error)

	// AvailableProperties returns the column names this dataset can serve,
	// regardless of the subset requested at open time.
	AvailableProperties() []string

	// Path returns the on-disk location of the backing database.
	Path() string

	// Close releases the backing database handle.  The Dataset must not be
	// used afterwards.
	Close() error
}
