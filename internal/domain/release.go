package domain

import "strings"

// TagRefPrefix is the ref prefix used by the CI runner for tag pushes.
const TagRefPrefix = "refs/tags/"

// AssetStub identifies an asset already attached to a release.
type AssetStub struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Release holds the fields of a hosted release that the reconciler reads or writes.
type Release struct {
	ID              int64       `json:"id"`
	TagName         string      `json:"tag_name"`
	TargetCommitish string      `json:"target_commitish"`
	Name            string      `json:"name"`
	Body            string      `json:"body"`
	Draft           bool        `json:"draft"`
	Prerelease      bool        `json:"prerelease"`
	HTMLURL         string      `json:"html_url"`
	UploadURL       string      `json:"upload_url"`
	Assets          []AssetStub `json:"assets"`
}

// FindAsset returns the asset with the given name, if any.
func FindAsset(assets []AssetStub, name string) (AssetStub, bool) {
	for _, a := range assets {
		if a.Name == name {
			return a, true
		}
	}
	return AssetStub{}, false
}

// ReleaseAsset is a local file projected into an upload payload.
type ReleaseAsset struct {
	Name string
	Mime string
	Size int64
	Data []byte
}

// IsTag reports whether ref points at a tag.
func IsTag(ref string) bool {
	return strings.HasPrefix(ref, TagRefPrefix)
}

// TagFromRef strips the tag prefix from ref. Non-tag refs yield "".
func TagFromRef(ref string) string {
	if !IsTag(ref) {
		return ""
	}
	return strings.TrimPrefix(ref, TagRefPrefix)
}

// UploadURL truncates a URI template such as ".../assets{?name,label}" at its
// first brace so it can be used as a plain POST endpoint.
func UploadURL(template string) string {
	if i := strings.IndexByte(template, '{'); i > -1 {
		return template[:i]
	}
	return template
}
