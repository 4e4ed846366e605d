package storage

// Schema versioning is by CREATE TABLE IF NOT EXISTS: the tables are
// append-only logs, so re-running the statements is always safe.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS audit_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	event_type TEXT NOT NULL,
	change_id TEXT NOT NULL,
	change_type TEXT NOT NULL,
	file_path TEXT NOT NULL,
	affected_components TEXT NOT NULL DEFAULT '[]',
	risk_level TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_audit_events_created_at ON audit_events(created_at);
CREATE INDEX IF NOT EXISTS idx_audit_events_change_id ON audit_events(change_id);
CREATE INDEX IF NOT EXISTS idx_audit_events_risk_level ON audit_events(risk_level);

CREATE TABLE IF NOT EXISTS impact_reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	format TEXT NOT NULL,
	compressed INTEGER NOT NULL DEFAULT 0,
	content BLOB NOT NULL,
	change_count INTEGER NOT NULL DEFAULT 0,
	risk_level TEXT NOT NULL DEFAULT 'low',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_impact_reports_created_at ON impact_reports(created_at);
`

func (db *DB) initializeSchema() error {
	_, err := db.conn.Exec(schemaSQL)
	return err
}
