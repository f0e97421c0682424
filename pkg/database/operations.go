package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/guimunizramos/studioid/pkg/model"
	"github.com/guimunizramos/studioid/pkg/store"
	"github.com/guimunizramos/studioid/pkg/utils"
)

// SQLRepository stores the whole AppState as one JSON payload per namespace.
type SQLRepository struct {
	db        *sql.DB
	namespace string
	sql       dialect
}

// NewSQLRepository wraps an open database. An empty namespace uses
// DefaultNamespace.
func NewSQLRepository(db *sql.DB, driver, namespace string) (*SQLRepository, error) {
	if driver == "" {
		driver = DriverSQLite
	}
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &SQLRepository{db: db, namespace: namespace, sql: d}, nil
}

func (r *SQLRepository) Namespace() string { return r.namespace }

// LoadRow retrieves the raw stored row for this namespace
func (r *SQLRepository) LoadRow(ctx context.Context) (StateRow, error) {
	var row StateRow
	err := r.db.QueryRowContext(ctx, r.sql.load, r.namespace).Scan(&row.Namespace, &row.Payload, &row.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return StateRow{}, store.ErrNotFound
	}
	return row, err
}

// Load decodes the stored state. A payload that isn't valid state JSON is
// reported as store.ErrCorruptState.
func (r *SQLRepository) Load(ctx context.Context) (model.AppState, error) {
	row, err := r.LoadRow(ctx)
	if err != nil {
		return model.AppState{}, err
	}

	var state model.AppState
	if err := json.Unmarshal([]byte(row.Payload), &state); err != nil {
		return model.AppState{}, fmt.Errorf("%w: %v", store.ErrCorruptState, err)
	}

	utils.Log("Loaded state %q: %d clients, %d tasks", r.namespace, len(state.Clients), len(state.Tasks))

	return state, nil
}

// Save writes the whole state, replacing the previous payload
func (r *SQLRepository) Save(ctx context.Context, state model.AppState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.sql.upsert, r.namespace, string(payload)); err != nil {
		return err
	}
	utils.Log("Saved state %q (%d bytes)", r.namespace, len(payload))
	return nil
}

// Purge removes the stored state for this namespace
func (r *SQLRepository) Purge(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.sql.purge, r.namespace)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListNamespaces returns every stored row, payload included
func (r *SQLRepository) ListNamespaces(ctx context.Context) ([]StateRow, error) {
	rows, err := r.db.QueryContext(ctx, r.sql.list)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StateRow
	for rows.Next() {
		var row StateRow
		if err := rows.Scan(&row.Namespace, &row.Payload, &row.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
