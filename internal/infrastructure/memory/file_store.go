// Package memory persists the assistant's memory document as indented JSON.
package memory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/doeshing/gng-assistant/internal/domain"
	"github.com/doeshing/gng-assistant/internal/pkg/filesystem"
	"github.com/doeshing/gng-assistant/internal/ports"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileStore reads and fully overwrites one JSON document.
type FileStore struct {
	path string
}

// NewFileStore returns a store for path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load implements ports.MemoryStore. A missing file is an empty document.
func (s *FileStore) Load(context.Context) (domain.Memory, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Memory{}, nil
		}
		return nil, fmt.Errorf("read memory: %w", err)
	}
	mem := domain.Memory{}
	if err := json.Unmarshal(data, &mem); err != nil {
		return nil, fmt.Errorf("decode memory %s: %w", s.path, err)
	}
	if mem == nil {
		mem = domain.Memory{}
	}
	return mem, nil
}

// Save implements ports.MemoryStore. The file is replaced through a rename
// so a crash never leaves a truncated document.
func (s *FileStore) Save(_ context.Context, mem domain.Memory) error {
	if mem == nil {
		mem = domain.Memory{}
	}
	data, err := json.MarshalIndent(mem, "", "  ")
	if err != nil {
		return fmt.Errorf("encode memory: %w", err)
	}
	return filesystem.WriteFileAtomic(s.path, append(data, '\n'), domain.SecureFilePermissions)
}

// Clear removes the document.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

var _ ports.MemoryStore = (*FileStore)(nil)
