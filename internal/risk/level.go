package risk

// Level represents the four-step risk scale used across the engine
type Level string

const (
	Low      Level = "low"
	Medium   Level = "medium"
	High     Level = "high"
	Critical Level = "critical"
)

var levelRank = map[Level]int{
	Low:      0,
	Medium:   1,
	High:     2,
	Critical: 3,
}

// Max returns the higher of two levels
func Max(a, b Level) Level {
	if levelRank[a] >= levelRank[b] {
		return a
	}
	return b
}

// AtLeast reports whether l is at or above the threshold level
func (l Level) AtLeast(threshold Level) bool {
	return levelRank[l] >= levelRank[threshold]
}
