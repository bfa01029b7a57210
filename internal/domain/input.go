package domain

// ReleaseInput carries the fields sent when creating or updating a release.
// Nil pointers and empty strings are omitted from the request.
type ReleaseInput struct {
	TagName                string
	TargetCommitish        string
	Name                   string
	Body                   *string
	Draft                  *bool
	Prerelease             *bool
	DiscussionCategoryName string
	GenerateReleaseNotes   bool
}

// Inherit returns the override when one was supplied and the existing value otherwise.
func Inherit[T any](override *T, existing T) T {
	if override != nil {
		return *override
	}
	return existing
}

// FirstNonEmpty returns the first non-empty string of values.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
