package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// StoredReport is one persisted report, possibly zstd-compressed
type StoredReport struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Format      string    `json:"format"`
	Compressed  bool      `json:"compressed"`
	Content     []byte    `json:"-"`
	ChangeCount int       `json:"changeCount"`
	RiskLevel   string    `json:"riskLevel"`
	CreatedAt   time.Time `json:"createdAt"`
}

// InsertReport persists one generated report
func (db *DB) InsertReport(report *StoredReport) error {
	result, err := db.conn.Exec(`
		INSERT INTO impact_reports (title, format, compressed, content, change_count, risk_level, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.Title, report.Format, boolToInt(report.Compressed), report.Content,
		report.ChangeCount, report.RiskLevel, report.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	report.ID, _ = result.LastInsertId()
	return nil
}

// ReportByID loads one report, content included
func (db *DB) ReportByID(id int64) (*StoredReport, error) {
	row := db.conn.QueryRow(`
		SELECT id, title, format, compressed, content, change_count, risk_level, created_at
		FROM impact_reports WHERE id = ?`, id)

	var report StoredReport
	var compressed int
	err := row.Scan(&report.ID, &report.Title, &report.Format, &compressed,
		&report.Content, &report.ChangeCount, &report.RiskLevel, &report.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("report %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	report.Compressed = compressed != 0
	return &report, nil
}

// ListReports returns report metadata newest first, without content
func (db *DB) ListReports(limit int) ([]*StoredReport, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, title, format, compressed, change_count, risk_level, created_at
		FROM impact_reports
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var out []*StoredReport
	for rows.Next() {
		var report StoredReport
		var compressed int
		if err := rows.Scan(&report.ID, &report.Title, &report.Format, &compressed,
			&report.ChangeCount, &report.RiskLevel, &report.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		report.Compressed = compressed != 0
		out = append(out, &report)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
