package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactService_Files(t *testing.T) {
	dir := ".build/artifacts"
	fs := setupTestFs(t,
		filepath.Join(dir, "linux", "app.tar.gz"),
		filepath.Join(dir, "linux", "app.sha256"),
		filepath.Join(dir, "darwin", "app.zip"),
		filepath.Join(dir, "darwin", "nested", "skip.txt"),
		filepath.Join(dir, "stray.txt"),
	)
	svc := NewArtifactService(fs, dir)

	t.Run("Should list the files of the named artifact", func(t *testing.T) {
		files, err := svc.Files([]string{"linux"})
		require.NoError(t, err)
		assert.Equal(t, []ArtifactFile{
			{Artifact: "linux", Path: filepath.Join(dir, "linux", "app.sha256")},
			{Artifact: "linux", Path: filepath.Join(dir, "linux", "app.tar.gz")},
		}, files)
	})
	t.Run("Should select every artifact with a wildcard", func(t *testing.T) {
		files, err := svc.Files([]string{"*", "linux"})
		require.NoError(t, err)
		require.Len(t, files, 3)
		assert.Equal(t, "darwin", files[0].Artifact)
		assert.Equal(t, filepath.Join(dir, "darwin", "app.zip"), files[0].Path)
	})
	t.Run("Should return nothing for unknown artifacts", func(t *testing.T) {
		files, err := svc.Files([]string{"windows"})
		require.NoError(t, err)
		assert.Empty(t, files)
	})
	t.Run("Should tolerate a missing artifacts directory", func(t *testing.T) {
		files, err := NewArtifactService(setupTestFs(t), dir).Files([]string{"*"})
		require.NoError(t, err)
		assert.Empty(t, files)
	})
}
