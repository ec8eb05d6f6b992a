package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Storage keeps uploaded files and generated outputs on disk.
//
// Layout:
//
//	uploadDir/<uuid><ext>                  uploaded data files and templates
//	outputDir/<jobID>/output_<row>.docx    generated batch outputs
type Storage struct {
	uploadDir string
	outputDir string
}

func NewStorage(uploadDir, outputDir string) (*Storage, error) {
	for _, dir := range []string{uploadDir, outputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage dir %s: %w", dir, err)
		}
	}
	return &Storage{uploadDir: uploadDir, outputDir: outputDir}, nil
}

func (s *Storage) OutputDir() string {
	return s.outputDir
}

// SaveUpload stores an uploaded file under a fresh uuid name, keeping
// the original extension, and returns the stored path.
func (s *Storage) SaveUpload(originalName string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	path := filepath.Join(s.uploadDir, uuid.New().String()+ext)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return path, nil
}

// SaveOutput stores one generated file under outputDir/<id>/.
func (s *Storage) SaveOutput(id, filename string, content []byte) (string, error) {
	dir := filepath.Join(s.outputDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to write output: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write output: %w", err)
	}
	return path, nil
}

// ListOutputs returns the generated filenames for a job, sorted.
func (s *Storage) ListOutputs(jobID string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.outputDir, jobID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ReadOutput returns one generated file's content. The filename is
// reduced to its base name so callers cannot escape the job directory.
func (s *Storage) ReadOutput(jobID, filename string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.outputDir, jobID, filepath.Base(filename)))
}
