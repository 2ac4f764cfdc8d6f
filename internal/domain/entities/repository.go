package entities

import (
	"path"

	gitforgeEntities "github.com/rios0rios0/gitforge/pkg/global/domain/entities"
)

// File is re-exported from gitforge.
type File = gitforgeEntities.File

// FileName is the last path element of a listed file.
func FileName(file File) string {
	return path.Base(file.Path)
}
