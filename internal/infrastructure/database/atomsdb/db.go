// Package atomsdb implements the structured database backend for atomistic
// datasets.  Each database is a single SQLite file holding the structures
// (atomic numbers, positions, cell, periodicity) and one row per property
// value, plus a metadata table declaring which property columns the database
// serves.  The file is treated as a singly-owned resource held open for the
// duration of the caller's session.
package atomsdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/molforge/atomkit/internal/domain/atoms"
	"github.com/molforge/atomkit/internal/infrastructure/monitoring/logging"
	"github.com/molforge/atomkit/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS systems (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	natoms    INTEGER NOT NULL,
	numbers   TEXT    NOT NULL,
	positions TEXT    NOT NULL,
	cell      TEXT    NOT NULL,
	pbc       TEXT    NOT NULL
);
CREATE TABLE IF NOT EXISTS properties (
	system_id INTEGER NOT NULL REFERENCES systems(id) ON DELETE CASCADE,
	name      TEXT    NOT NULL,
	value     TEXT    NOT NULL,
	PRIMARY KEY (system_id, name)
);
CREATE TABLE IF NOT EXISTS metadata (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// metaAvailableProperties is the metadata key holding the JSON-encoded list
// of property columns this database serves.
const metaAvailableProperties = "available_properties"

// AtomsData is an opened atoms database.  Read access is random by
// zero-based structure index; write access (Append) is only permitted on
// handles returned by Create.
type AtomsData struct {
	db        *sql.DB
	path      string
	required  []string
	available []string
	writable  bool
	sessionID uuid.UUID
	logger    logging.Logger
}

// Open opens an existing database at path and validates that every required
// property column is available in it.  The required list is typically the
// column side of a resolved property mapping; reads via Get load exactly
// those columns.
func Open(path string, requiredProperties []string, logger logging.Logger) (*AtomsData, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable,
			fmt.Sprintf("atoms database %s does not exist", path))
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError,
			fmt.Sprintf("failed to open atoms database %s", path))
	}

	a := &AtomsData{
		db:        db,
		path:      path,
		required:  append([]string(nil), requiredProperties...),
		sessionID: uuid.New(),
		logger:    logger.Named("atomsdb"),
	}

	if err := a.loadAvailable(); err != nil {
		_ = db.Close()
		return nil, err
	}
	for _, req := range a.required {
		if !a.hasProperty(req) {
			_ = db.Close()
			return nil, errors.New(errors.ErrCodePropertyNotAvailable,
				fmt.Sprintf("database %s does not provide property %q (available: %v)", path, req, a.available))
		}
	}

	a.logger.Debug("opened atoms database",
		logging.String("path", path),
		logging.String("session_id", a.sessionID.String()),
		logging.Any("required", a.required))
	return a, nil
}

// Create creates a new database at path declaring the given property
// columns, truncating any existing file.  The returned handle is writable;
// it also serves reads with no required-property restriction.
func Create(path string, availableProperties []string, logger logging.Logger) (*AtomsData, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, errors.CodeDatabaseError,
			fmt.Sprintf("failed to truncate existing database %s", path))
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError,
			fmt.Sprintf("failed to create atoms database %s", path))
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.CodeDatabaseError,
			fmt.Sprintf("failed to initialize schema in %s", path))
	}

	available := append([]string(nil), availableProperties...)
	sort.Strings(available)
	raw, err := json.Marshal(available)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.CodeSerialization, "failed to encode available properties")
	}
	if _, err := db.Exec(
		`INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)`,
		metaAvailableProperties, string(raw),
	); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.CodeDatabaseError,
			fmt.Sprintf("failed to write metadata in %s", path))
	}

	a := &AtomsData{
		db:        db,
		path:      path,
		available: available,
		writable:  true,
		sessionID: uuid.New(),
		logger:    logger.Named("atomsdb"),
	}
	a.logger.Debug("created atoms database",
		logging.String("path", path),
		logging.Any("available", available))
	return a, nil
}

// Path returns the on-disk location of the database file.
func (a *AtomsData) Path() string { return a.path }

// SessionID returns the identifier attached to this handle's log entries.
func (a *AtomsData) SessionID() uuid.UUID { return a.sessionID }

// AvailableProperties returns the property columns this database serves.
func (a *AtomsData) AvailableProperties() []string {
	return append([]string(nil), a.available...)
}

// RequiredProperties returns the columns this handle was opened with.
func (a *AtomsData) RequiredProperties() []string {
	return append([]string(nil), a.required...)
}

// Count returns the number of structures stored.
func (a *AtomsData) Count(ctx context.Context) (int, error) {
	var n int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM systems`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, errors.CodeDatabaseError,
			fmt.Sprintf("failed to count structures in %s", a.path))
	}
	return n, nil
}

// Get returns the structure at the given zero-based index with the required
// property columns populated.  Handles returned by Create load every
// available column instead.
func (a *AtomsData) Get(ctx context.Context, index int) (*atoms.Atoms, error) {
	if index < 0 {
		return nil, errors.New(errors.ErrCodeIndexOutOfRange,
			fmt.Sprintf("structure index %d is negative", index))
	}

	row := a.db.QueryRowContext(ctx,
		`SELECT id, numbers, positions, cell, pbc FROM systems ORDER BY id LIMIT 1 OFFSET ?`, index)

	var systemID int64
	var numbersRaw, positionsRaw, cellRaw, pbcRaw string
	if err := row.Scan(&systemID, &numbersRaw, &positionsRaw, &cellRaw, &pbcRaw); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(errors.ErrCodeIndexOutOfRange,
				fmt.Sprintf("structure index %d out of range for %s", index, a.path))
		}
		return nil, errors.Wrap(err, errors.CodeDatabaseError,
			fmt.Sprintf("failed to read structure %d from %s", index, a.path))
	}

	at := &atoms.Atoms{}
	if err := decodeJSON(numbersRaw, &at.Numbers); err != nil {
		return nil, err
	}
	if err := decodeJSON(positionsRaw, &at.Positions); err != nil {
		return nil, err
	}
	if err := decodeJSON(cellRaw, &at.Cell); err != nil {
		return nil, err
	}
	if err := decodeJSON(pbcRaw, &at.PBC); err != nil {
		return nil, err
	}

	want := a.required
	if a.writable || want == nil {
		want = a.available
	}
	if len(want) > 0 {
		props, err := a.loadProperties(ctx, systemID, want)
		if err != nil {
			return nil, err
		}
		at.Properties = props
	}
	return at, nil
}

// Append stores a structure and its property values.  Only properties the
// database declares are stored; undeclared properties on the structure are
// ignored so heterogeneous input frames do not poison the database schema.
func (a *AtomsData) Append(ctx context.Context, at *atoms.Atoms) error {
	if !a.writable {
		return errors.New(errors.CodeConflict,
			fmt.Sprintf("atoms database %s was opened read-only", a.path))
	}
	if err := at.Validate(); err != nil {
		return err
	}

	numbersRaw, err := json.Marshal(at.Numbers)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to encode atomic numbers")
	}
	positionsRaw, err := json.Marshal(at.Positions)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to encode positions")
	}
	cellRaw, err := json.Marshal(at.Cell)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to encode cell")
	}
	pbcRaw, err := json.Marshal(at.PBC)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to encode pbc")
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO systems (natoms, numbers, positions, cell, pbc) VALUES (?, ?, ?, ?, ?)`,
		at.NumAtoms(), string(numbersRaw), string(positionsRaw), string(cellRaw), string(pbcRaw))
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError,
			fmt.Sprintf("failed to insert structure into %s", a.path))
	}
	systemID, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to resolve inserted structure id")
	}

	for _, name := range a.available {
		values, ok := at.Properties[name]
		if !ok {
			continue
		}
		valueRaw, err := json.Marshal(values)
		if err != nil {
			return errors.Wrap(err, errors.CodeSerialization,
				fmt.Sprintf("failed to encode property %q", name))
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO properties (system_id, name, value) VALUES (?, ?, ?)`,
			systemID, name, string(valueRaw)); err != nil {
			return errors.Wrap(err, errors.CodeDatabaseError,
				fmt.Sprintf("failed to insert property %q into %s", name, a.path))
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to commit structure")
	}
	return nil
}

// Close releases the underlying database handle.
func (a *AtomsData) Close() error {
	a.logger.Debug("closing atoms database",
		logging.String("path", a.path),
		logging.String("session_id", a.sessionID.String()))
	return a.db.Close()
}

// loadAvailable reads the available-property list from the metadata table.
func (a *AtomsData) loadAvailable() error {
	var raw string
	err := a.db.QueryRow(
		`SELECT value FROM metadata WHERE key = ?`, metaAvailableProperties).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			a.available = nil
			return nil
		}
		return errors.Wrap(err, errors.CodeDatabaseError,
			fmt.Sprintf("failed to read metadata from %s (not an atoms database?)", a.path))
	}
	return decodeJSON(raw, &a.available)
}

func (a *AtomsData) hasProperty(name string) bool {
	for _, p := range a.available {
		if p == name {
			return true
		}
	}
	return false
}

// loadProperties reads the named property rows for one structure.
func (a *AtomsData) loadProperties(ctx context.Context, systemID int64, names []string) (map[string][]float64, error) {
	props := make(map[string][]float64, len(names))
	for _, name := range names {
		var raw string
		err := a.db.QueryRowContext(ctx,
			`SELECT value FROM properties WHERE system_id = ? AND name = ?`, systemID, name).Scan(&raw)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, errors.New(errors.ErrCodePropertyNotAvailable,
					fmt.Sprintf("structure %d in %s has no value for property %q", systemID, a.path, name))
			}
			return nil, errors.Wrap(err, errors.CodeDatabaseError,
				fmt.Sprintf("failed to read property %q from %s", name, a.path))
		}
		var values []float64
		if err := decodeJSON(raw, &values); err != nil {
			return nil, err
		}
		props[name] = values
	}
	return props, nil
}

func decodeJSON(raw string, dst interface{}) error {
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to decode stored value")
	}
	return nil
}
