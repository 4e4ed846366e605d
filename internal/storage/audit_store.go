package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// AuditEvent is one persisted audit record
type AuditEvent struct {
	ID                 int64     `json:"id"`
	EventType          string    `json:"eventType"`
	ChangeID           string    `json:"changeId"`
	ChangeType         string    `json:"changeType"`
	FilePath           string    `json:"filePath"`
	AffectedComponents []string  `json:"affectedComponents"`
	RiskLevel          string    `json:"riskLevel"`
	CreatedAt          time.Time `json:"createdAt"`
}

// InsertAuditEvent appends one event to the audit log
func (db *DB) InsertAuditEvent(event *AuditEvent) error {
	components, err := json.Marshal(event.AffectedComponents)
	if err != nil {
		return fmt.Errorf("failed to encode affected components: %w", err)
	}

	result, err := db.conn.Exec(`
		INSERT INTO audit_events (event_type, change_id, change_type, file_path, affected_components, risk_level, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.EventType, event.ChangeID, event.ChangeType, event.FilePath,
		string(components), event.RiskLevel, event.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}

	event.ID, _ = result.LastInsertId()
	return nil
}

// AuditEventsSince returns events created at or after the given time,
// newest first.
func (db *DB) AuditEventsSince(since time.Time) ([]*AuditEvent, error) {
	rows, err := db.conn.Query(`
		SELECT id, event_type, change_id, change_type, file_path, affected_components, risk_level, created_at
		FROM audit_events
		WHERE created_at >= ?
		ORDER BY created_at DESC, id DESC`,
		since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	return scanAuditEvents(rows)
}

// AuditEventsForChange returns every event recorded for one change ID
func (db *DB) AuditEventsForChange(changeID string) ([]*AuditEvent, error) {
	rows, err := db.conn.Query(`
		SELECT id, event_type, change_id, change_type, file_path, affected_components, risk_level, created_at
		FROM audit_events
		WHERE change_id = ?
		ORDER BY created_at DESC, id DESC`,
		changeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	return scanAuditEvents(rows)
}

// PruneAuditEvents deletes events older than the cutoff and reports how
// many were removed.
func (db *DB) PruneAuditEvents(cutoff time.Time) (int64, error) {
	result, err := db.conn.Exec(`DELETE FROM audit_events WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit events: %w", err)
	}
	return result.RowsAffected()
}

func scanAuditEvents(rows *sql.Rows) ([]*AuditEvent, error) {
	var out []*AuditEvent
	for rows.Next() {
		var event AuditEvent
		var components string
		if err := rows.Scan(&event.ID, &event.EventType, &event.ChangeID, &event.ChangeType,
			&event.FilePath, &components, &event.RiskLevel, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		if err := json.Unmarshal([]byte(components), &event.AffectedComponents); err != nil {
			return nil, fmt.Errorf("failed to decode affected components: %w", err)
		}
		out = append(out, &event)
	}
	return out, rows.Err()
}
