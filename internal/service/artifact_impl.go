package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// AllArtifacts selects every downloaded artifact.
const AllArtifacts = "*"

// artifactService is the implementation of the ArtifactService interface.
type artifactService struct {
	fs  afero.Fs
	dir string
}

// NewArtifactService creates a new ArtifactService rooted at dir.
func NewArtifactService(fs afero.Fs, dir string) ArtifactService {
	return &artifactService{fs: fs, dir: dir}
}

// Files returns the files of every artifact selected by names, artifact by artifact.
// A missing artifacts directory yields no files.
func (s *artifactService) Files(names []string) ([]ArtifactFile, error) {
	if len(names) == 0 {
		return nil, nil
	}
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read artifacts directory %s: %w", s.dir, err)
	}
	var out []ArtifactFile
	for _, entry := range entries {
		if !entry.IsDir() || !selected(entry.Name(), names) {
			continue
		}
		artifactDir := filepath.Join(s.dir, entry.Name())
		files, err := afero.ReadDir(s.fs, artifactDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read artifact %s: %w", entry.Name(), err)
		}
		for _, f := range files {
			if !f.Mode().IsRegular() {
				continue
			}
			out = append(out, ArtifactFile{Artifact: entry.Name(), Path: filepath.Join(artifactDir, f.Name())})
		}
	}
	return out, nil
}

func selected(artifact string, names []string) bool {
	for _, name := range names {
		if name == AllArtifacts || name == artifact {
			return true
		}
	}
	return false
}
