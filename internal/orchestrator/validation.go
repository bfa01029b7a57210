package orchestrator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/compozy/ghrelease/internal/config"
	"github.com/compozy/ghrelease/internal/domain"
)

var (
	// ErrTagRequired is returned when neither a tag input nor a tag ref is available
	// for a release that is not an explicit draft.
	ErrTagRequired = errors.New("GitHub Releases requires a tag")
	// ErrUnmatchedFiles is returned when fail_on_unmatched_files is set and a pattern matched nothing.
	ErrUnmatchedFiles = errors.New("there were unmatched files")
)

// ValidateReleaseTarget checks that the run can address a release.
func ValidateReleaseTarget(cfg *config.Config) error {
	isDraft := cfg.Draft != nil && *cfg.Draft
	if cfg.TagName == "" && !domain.IsTag(cfg.Ref) && !isDraft {
		return ErrTagRequired
	}
	if cfg.TagName != "" {
		if err := ValidateTagName(cfg.TagName); err != nil {
			return fmt.Errorf("invalid tag_name: %w", err)
		}
	}
	return nil
}

// ValidateTagName validates a tag name against the git ref format rules.
func ValidateTagName(tag string) error {
	if tag == "" {
		return fmt.Errorf("tag name cannot be empty")
	}
	if len(tag) > 255 {
		return fmt.Errorf("tag name too long: %d characters (max: 255)", len(tag))
	}
	if strings.HasPrefix(tag, "/") || strings.HasSuffix(tag, "/") || strings.HasPrefix(tag, "-") {
		return fmt.Errorf("tag name cannot start or end with slash or start with dash: %s", tag)
	}
	if strings.Contains(tag, "..") || strings.Contains(tag, "@{") || strings.Contains(tag, "//") {
		return fmt.Errorf("tag name contains an invalid sequence: %s", tag)
	}
	if strings.HasSuffix(tag, ".lock") || strings.HasSuffix(tag, ".") {
		return fmt.Errorf("tag name cannot end with .lock or a dot: %s", tag)
	}
	if i := strings.IndexFunc(tag, func(r rune) bool {
		return r < 0x20 || r == 0x7f || strings.ContainsRune(" ~^:?*[\\", r)
	}); i >= 0 {
		return fmt.Errorf("invalid character %q in tag name: %s", tag[i], tag)
	}
	return nil
}
