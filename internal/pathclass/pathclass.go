// Package pathclass provides the pure path predicates shared by every
// component of the engine. The pattern sets are part of the public
// contract and must not drift between classifier, detector, and scorer.
package pathclass

import (
	"path"
	"strings"
)

// IsAPIFile reports whether the path belongs to the API surface
func IsAPIFile(filePath string) bool {
	return strings.Contains(filePath, "/api/") ||
		strings.Contains(filePath, "/routes/") ||
		strings.Contains(filePath, "/endpoints/") ||
		strings.HasSuffix(filePath, ".api.ts")
}

// IsDatabaseFile reports whether the path belongs to the database layer
func IsDatabaseFile(filePath string) bool {
	return strings.Contains(filePath, "/migrations/") ||
		strings.Contains(filePath, "/schema/") ||
		strings.Contains(filePath, "/models/") ||
		strings.HasSuffix(filePath, ".sql")
}

// IsConfigurationFile reports whether the path is a configuration file
func IsConfigurationFile(filePath string) bool {
	return strings.Contains(filePath, "config") ||
		strings.HasSuffix(filePath, ".config.ts") ||
		strings.HasSuffix(filePath, ".config.js") ||
		strings.HasSuffix(filePath, ".env")
}

// IsHistoricallyRisky flags paths that keep showing up in incident
// retrospectives. A static stand-in for real git-history mining.
func IsHistoricallyRisky(filePath string) bool {
	lower := strings.ToLower(filePath)
	return strings.Contains(lower, "auth") ||
		strings.Contains(lower, "payment") ||
		strings.Contains(lower, "security") ||
		IsDatabaseFile(filePath) ||
		IsAPIFile(filePath)
}

// TestCandidates returns the paths where a matching test file for the given
// source file would be discoverable. Callers check these against the known
// file set; a file with no candidate present counts as untested.
func TestCandidates(filePath string) []string {
	ext := path.Ext(filePath)
	base := strings.TrimSuffix(filePath, ext)
	dir, name := path.Split(base)

	return []string{
		base + ".test" + ext,
		base + ".spec" + ext,
		dir + "__tests__/" + name + ".test" + ext,
		dir + "__tests__/" + name + ".spec" + ext,
	}
}

// ImportResolver resolves an import specifier found in fromFile to a
// concrete file path, or returns false if the specifier cannot be resolved.
// The engine only ever resolves relative imports; package imports are
// deliberately left unresolved.
type ImportResolver interface {
	Resolve(fromFile, specifier string, exists func(string) bool) (string, bool)
}

// RelativeResolver resolves relative import specifiers by suffix probing.
// It checks the bare path, then .ts, .tsx, and /index.ts in that order.
type RelativeResolver struct{}

// Resolve implements ImportResolver
func (RelativeResolver) Resolve(fromFile, specifier string, exists func(string) bool) (string, bool) {
	if !strings.HasPrefix(specifier, ".") {
		return "", false
	}

	joined := path.Join(path.Dir(fromFile), specifier)
	for _, candidate := range []string{joined, joined + ".ts", joined + ".tsx", joined + "/index.ts"} {
		if exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}
