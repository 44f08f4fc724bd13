package source

// Source names the selection path that produced a result.
type Source string

// Selection sources.
const (
	// Personalized results were filtered by the viewer's interest tags.
	Personalized Source = "personalized"
	// Global results were scoped only by group, type, recency and category.
	Global Source = "global"
)
