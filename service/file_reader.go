package service

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/lil-lang/lilc/domain"
)

// FileReaderImpl reads sources from the filesystem and expands glob
// patterns with doublestar.
type FileReaderImpl struct{}

// NewFileReader creates a file reader
func NewFileReader() *FileReaderImpl {
	return &FileReaderImpl{}
}

// ReadFile reads one source file
func (r *FileReaderImpl) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// CollectSources expands a glob pattern into a sorted list of .lil
// files
func (r *FileReaderImpl) CollectSources(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, domain.NewInvalidInputError("bad source pattern", err)
	}
	var sources []string
	for _, m := range matches {
		if filepath.Ext(m) == ".lil" {
			sources = append(sources, m)
		}
	}
	sort.Strings(sources)
	return sources, nil
}
