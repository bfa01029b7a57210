package service

// MatcherService expands the file patterns configured for a release.

type MatcherService interface {
	// Paths returns the regular files matched by patterns, in pattern order and without duplicates.
	Paths(patterns []string) ([]string, error)
	// UnmatchedPatterns returns the patterns that match no regular file.
	UnmatchedPatterns(patterns []string) ([]string, error)
}
