package repository

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputRepository_SetOutput(t *testing.T) {
	t.Run("Should append heredoc blocks to the output file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "output")
		repo := NewOutputRepository(afero.NewOsFs(), path, nil)
		ctx := context.Background()
		require.NoError(t, repo.SetOutput(ctx, "id", "42"))
		require.NoError(t, repo.SetOutput(ctx, "assets", "[\n{\"id\":1}\n]"))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		block := regexp.MustCompile(`(?s)^id<<(ghadelimiter_[0-9a-f-]{36})\n42\n(ghadelimiter_[0-9a-f-]{36})\n` +
			`assets<<(ghadelimiter_[0-9a-f-]{36})\n\[\n\{"id":1\}\n\]\n(ghadelimiter_[0-9a-f-]{36})\n$`)
		m := block.FindStringSubmatch(string(data))
		require.Len(t, m, 5, string(data))
		assert.Equal(t, m[1], m[2])
		assert.Equal(t, m[3], m[4])
		assert.NotEqual(t, m[1], m[3])
	})
	t.Run("Should print name=value without an output file", func(t *testing.T) {
		var buf bytes.Buffer
		repo := NewOutputRepository(afero.NewMemMapFs(), "", &buf)
		require.NoError(t, repo.SetOutput(context.Background(), "url", "https://example.com"))
		assert.Equal(t, "url=https://example.com\n", buf.String())
	})
	t.Run("Should fail when the output directory does not exist", func(t *testing.T) {
		repo := NewOutputRepository(afero.NewOsFs(), filepath.Join(t.TempDir(), "missing", "output"), nil)
		err := repo.SetOutput(context.Background(), "id", "1")
		assert.Error(t, err)
	})
}
