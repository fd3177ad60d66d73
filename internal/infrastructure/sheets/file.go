package sheets

import (
	"context"
	"fmt"
	"os"

	"github.com/techchoose/backend/internal/domain"
)

// FileSource reads the catalog table from a local CSV file
type FileSource struct {
	path string
}

// NewFileSource creates a catalog source backed by a CSV file on disk
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// FetchRows reads and parses the file on every call
func (s *FileSource) FetchRows(ctx context.Context) ([]domain.RawRow, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrSheetFetchFailure, s.path, err)
	}
	defer f.Close()

	return ParseCSV(f)
}
