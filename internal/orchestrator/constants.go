package orchestrator

import (
	"os"
	"strconv"
)

var (
	// DefaultMaxRetries bounds how many times release creation is attempted
	DefaultMaxRetries = getCountOrDefault("RELEASE_MAX_RETRIES", 3)
	// DefaultUploadConcurrency bounds how many files are uploaded at once
	DefaultUploadConcurrency = getCountOrDefault("RELEASE_UPLOAD_CONCURRENCY", 4)
)

// Output names published for later workflow steps
const (
	OutputURL       = "url"
	OutputID        = "id"
	OutputUploadURL = "upload_url"
	OutputAssets    = "assets"
)

// getCountOrDefault returns the integer in envVar, or def when it is unset or invalid
func getCountOrDefault(envVar string, def int) int {
	if env := os.Getenv(envVar); env != "" {
		if count, err := strconv.Atoi(env); err == nil {
			return count
		}
	}
	return def
}
