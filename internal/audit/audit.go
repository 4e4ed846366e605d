// Package audit records breaking-change-detected events for analyzed
// changes and serves time-windowed queries over the trail. It is a pure
// consumer of analysis results; nothing here feeds back into scoring.
package audit

import (
	"time"

	"guardrails/internal/impact"
	"guardrails/internal/logging"
	"guardrails/internal/storage"
)

// EventBreakingChangeDetected is the one event type the engine emits
const EventBreakingChangeDetected = "breaking-change-detected"

// Recorder writes audit events and caches window queries
type Recorder struct {
	db     *storage.DB
	logger *logging.Logger
	cache  *windowCache
	now    func() time.Time
}

// NewRecorder creates a recorder. Window queries are cached for ttl; a
// zero ttl disables caching.
func NewRecorder(db *storage.DB, logger *logging.Logger, ttl time.Duration) *Recorder {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Recorder{
		db:     db,
		logger: logger,
		cache:  newWindowCache(ttl),
		now:    time.Now,
	}
}

// RecordAnalysis writes one breaking-change-detected event when the
// analysis found breaking changes. Analyses without breaking changes
// leave no trail.
func (r *Recorder) RecordAnalysis(analysis *impact.Analysis) error {
	if len(analysis.BreakingChanges) == 0 {
		return nil
	}

	components := make([]string, 0, len(analysis.AffectedComponents))
	for _, c := range analysis.AffectedComponents {
		components = append(components, c.Name)
	}

	event := &storage.AuditEvent{
		EventType:          EventBreakingChangeDetected,
		ChangeID:           analysis.Change.ID,
		ChangeType:         string(analysis.Change.Type),
		FilePath:           analysis.Change.FilePath,
		AffectedComponents: components,
		RiskLevel:          string(analysis.RiskLevel),
		CreatedAt:          r.now(),
	}
	if err := r.db.InsertAuditEvent(event); err != nil {
		return err
	}

	r.cache.invalidate()
	r.logger.Info("audit event recorded", map[string]interface{}{
		"changeId":  event.ChangeID,
		"filePath":  event.FilePath,
		"riskLevel": event.RiskLevel,
	})
	return nil
}

// EventsSince returns events within the window ending now. Repeated
// queries for the same window are served from the cache until it expires
// or a new event invalidates it.
func (r *Recorder) EventsSince(since time.Time) ([]*storage.AuditEvent, error) {
	if cached, ok := r.cache.get(since); ok {
		return cached, nil
	}

	events, err := r.db.AuditEventsSince(since)
	if err != nil {
		return nil, err
	}
	r.cache.put(since, events)
	return events, nil
}

// EventsForChange returns the trail for one change ID, uncached
func (r *Recorder) EventsForChange(changeID string) ([]*storage.AuditEvent, error) {
	return r.db.AuditEventsForChange(changeID)
}

// Prune removes events older than the retention period and returns the
// number removed.
func (r *Recorder) Prune(retention time.Duration) (int64, error) {
	pruned, err := r.db.PruneAuditEvents(r.now().Add(-retention))
	if err != nil {
		return 0, err
	}
	if pruned > 0 {
		r.cache.invalidate()
		r.logger.Debug("audit events pruned", map[string]interface{}{
			"count": pruned,
		})
	}
	return pruned, nil
}
