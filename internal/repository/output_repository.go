package repository

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const (
	// OutputFilePermissions defines the permissions used when the output file has to be created
	OutputFilePermissions = 0644
	// LockTimeout defines the maximum time to wait for a lock
	LockTimeout = 30 * time.Second
	// LockRetryInterval defines the interval between lock retry attempts
	LockRetryInterval = 100 * time.Millisecond

	outputDelimiterPrefix = "ghadelimiter_"
)

// OutputRepository publishes named step outputs for later workflow steps.
type OutputRepository interface {
	SetOutput(ctx context.Context, name, value string) error
}

// fileOutputRepository appends outputs to the runner's output file, or prints
// them when no output file is configured.
type fileOutputRepository struct {
	fs     afero.Fs
	path   string
	stdout io.Writer
}

// NewOutputRepository creates an OutputRepository writing to path.
// An empty path prints name=value lines to stdout instead.
func NewOutputRepository(fs afero.Fs, path string, stdout io.Writer) OutputRepository {
	if stdout == nil {
		stdout = os.Stdout
	}
	return &fileOutputRepository{fs: fs, path: path, stdout: stdout}
}

// SetOutput appends name to the output file using a heredoc block with a random delimiter.
func (r *fileOutputRepository) SetOutput(ctx context.Context, name, value string) error {
	if r.path == "" {
		if _, err := fmt.Fprintf(r.stdout, "%s=%s\n", name, value); err != nil {
			return fmt.Errorf("failed to print output %s: %w", name, err)
		}
		return nil
	}
	delimiter := outputDelimiterPrefix + uuid.NewString()
	if strings.Contains(name, delimiter) || strings.Contains(value, delimiter) {
		return fmt.Errorf("output %s must not contain the delimiter %s", name, delimiter)
	}
	lock := flock.New(r.path)
	lockCtx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()
	locked, err := acquireLockWithContext(lockCtx, lock)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire lock within timeout")
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to unlock file: %v\n", unlockErr)
		}
	}()
	f, err := r.fs.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, OutputFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write output %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// acquireLockWithContext attempts to acquire an exclusive lock with context support
func acquireLockWithContext(ctx context.Context, lock *flock.Flock) (bool, error) {
	if locked, err := lock.TryLock(); err != nil || locked {
		return locked, err
	}
	ticker := time.NewTicker(LockRetryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
			locked, err := lock.TryLock()
			if err != nil {
				return false, err
			}
			if locked {
				return true, nil
			}
		}
	}
}
