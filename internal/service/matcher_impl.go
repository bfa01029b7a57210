package service

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// matcherService is the implementation of the MatcherService interface.
type matcherService struct {
	fs afero.Fs
}

// NewMatcherService creates a new MatcherService reading from fs.
func NewMatcherService(fs afero.Fs) MatcherService {
	return &matcherService{fs: fs}
}

// Paths returns the regular files matched by patterns.
func (s *matcherService) Paths(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, pattern := range patterns {
		files, err := s.files(pattern)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}
	return out, nil
}

// UnmatchedPatterns returns the patterns that match no regular file.
func (s *matcherService) UnmatchedPatterns(patterns []string) ([]string, error) {
	var out []string
	for _, pattern := range patterns {
		files, err := s.files(pattern)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			out = append(out, pattern)
		}
	}
	return out, nil
}

func (s *matcherService) files(pattern string) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	matches, err := afero.Glob(s.fs, pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)
	files := matches[:0]
	for _, m := range matches {
		info, err := s.fs.Stat(m)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", m, err)
		}
		if info.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	return files, nil
}
