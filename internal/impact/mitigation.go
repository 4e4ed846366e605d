package impact

import (
	"fmt"

	"guardrails/internal/change"
	"guardrails/internal/pathclass"
	"guardrails/internal/risk"
)

// mitigationsFor applies the fixed strategy rule table. Strategies are
// cumulative: a high-risk delete of an API file collects four of them.
func mitigationsFor(ch *change.CodeChange, level risk.Level, hasBreaking bool) []MitigationStrategy {
	var out []MitigationStrategy
	highRisk := level.AtLeast(risk.High)

	if highRisk {
		out = append(out, MitigationStrategy{
			Type:        StrategyTesting,
			Description: fmt.Sprintf("Extend test coverage around %s before merging", ch.FilePath),
			Priority:    1,
			Effort:      "medium",
			Steps: []string{
				"Add unit tests for every component the change touches",
				"Add an integration test exercising the dependent files",
				"Run the full suite against the change in isolation",
			},
		})
	}

	if hasBreaking {
		out = append(out, MitigationStrategy{
			Type:        StrategyVersioning,
			Description: "Breaking changes detected; version the affected surface",
			Priority:    1,
			Effort:      "medium",
			Steps: []string{
				"Bump the major version of the affected package",
				"Keep the previous signatures available under the old version",
				"Announce the break and the migration path to consumers",
			},
		})
	}

	if ch.Type == change.Delete {
		out = append(out, MitigationStrategy{
			Type:        StrategyDeprecation,
			Description: fmt.Sprintf("Deprecate %s before removing it", ch.FilePath),
			Priority:    2,
			Effort:      "low",
			Steps: []string{
				"Mark the file's exports deprecated for one release cycle",
				"Point remaining importers at the replacement",
				"Remove the file once no importers are left",
			},
		})
	}

	if pathclass.IsAPIFile(ch.FilePath) {
		out = append(out, MitigationStrategy{
			Type:        StrategyBackwardCompatibility,
			Description: "API surface changed; keep old clients working",
			Priority:    2,
			Effort:      "medium",
			Steps: []string{
				"Keep existing endpoints responding during the transition",
				"Accept both old and new request shapes where they differ",
				"Monitor client errors after rollout",
			},
		})
	}

	if highRisk {
		out = append(out, MitigationStrategy{
			Type:        StrategyRollbackPlan,
			Description: "Prepare a rollback before deploying this change",
			Priority:    1,
			Effort:      "low",
			Steps: []string{
				"Record the revert commit or feature flag to flip",
				"Verify the rollback path in a staging environment",
				"Assign an owner to watch the deployment",
			},
		})
	}

	return out
}
