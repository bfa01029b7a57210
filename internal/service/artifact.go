package service

// ArtifactService lists the files of CI artifacts downloaded next to the workspace.
// Each artifact is a directory named after it.

type ArtifactService interface {
	Files(names []string) ([]ArtifactFile, error)
}

// ArtifactFile is a regular file inside an artifact directory.
type ArtifactFile struct {
	Artifact string
	Path     string
}
