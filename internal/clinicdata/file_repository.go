package clinicdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileRepository stores the document as one JSON file, rewritten wholesale on
// every Save. Writes go through a temp file plus rename so a crash mid-write
// cannot leave a truncated document behind.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileRepository creates a repository backed by the given path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Load reads the document from disk. A missing file yields the seed document
// and writes it out, matching first-run behavior of the original service.
func (r *FileRepository) Load(ctx context.Context) (*Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		doc := SeedDocument()
		if err := r.writeLocked(doc); err != nil {
			return nil, fmt.Errorf("clinicdata: write seed document: %w", err)
		}
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("clinicdata: read %s: %w", r.path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("clinicdata: parse %s: %w", r.path, err)
	}
	return &doc, nil
}

// Save overwrites the stored document.
func (r *FileRepository) Save(ctx context.Context, doc *Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writeLocked(doc)
}

func (r *FileRepository) writeLocked(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("clinicdata: marshal document: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".clinic-*.json")
	if err != nil {
		return fmt.Errorf("clinicdata: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("clinicdata: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("clinicdata: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("clinicdata: replace %s: %w", r.path, err)
	}
	return nil
}
