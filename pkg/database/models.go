package database

import (
	"time"
)

// DefaultNamespace is the key the state blob is stored under.
const DefaultNamespace = "studioflow_v3_bw_edition"

// StateRow represents one stored state blob
type StateRow struct {
	Namespace string    `db:"namespace"`
	Payload   string    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}

// dialect holds the SQL that differs between drivers
type dialect struct {
	load   string
	upsert string
	purge  string
	list   string
}

var dialects = map[string]dialect{
	DriverSQLite: {
		load: "SELECT namespace, payload, updated_at FROM app_state WHERE namespace = ?",
		upsert: `INSERT INTO app_state (namespace, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(namespace) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		purge: "DELETE FROM app_state WHERE namespace = ?",
		list:  "SELECT namespace, payload, updated_at FROM app_state ORDER BY namespace",
	},
	DriverPostgres: {
		load: "SELECT namespace, payload, updated_at FROM app_state WHERE namespace = $1",
		upsert: `INSERT INTO app_state (namespace, payload, updated_at) VALUES ($1, $2, now())
			ON CONFLICT (namespace) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		purge: "DELETE FROM app_state WHERE namespace = $1",
		list:  "SELECT namespace, payload, updated_at FROM app_state ORDER BY namespace",
	},
}
