package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/ae-conditions/internal/config"
)

// Repository defines persistence operations for replay scripts.
type Repository interface {
	Load(ctx context.Context) (*Script, error)
	Save(ctx context.Context, script *Script) error
}

// FileRepository persists a replay script to a YAML file on disk.
type FileRepository struct {
	// path is the filesystem location of the YAML script.
	path string
	// mu protects concurrent access to the script file.
	mu sync.Mutex
}

// ErrNotFound is returned when the script file does not exist.
var ErrNotFound = errors.New("script not found")

// NewFileRepository creates a repository that reads/writes YAML at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads and validates the script from disk.
func (r *FileRepository) Load(_ context.Context) (*Script, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read script file: %w", err)
	}

	var script Script
	if err = yaml.Unmarshal(contents, &script); err != nil {
		return nil, fmt.Errorf("decode script file: %w", err)
	}

	if err = script.Validate(); err != nil {
		return nil, err
	}

	return &script, nil
}

// Save validates the script and writes it to disk as YAML.
func (r *FileRepository) Save(_ context.Context, script *Script) error {
	if err := script.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := yaml.Marshal(script)
	if err != nil {
		return fmt.Errorf("encode script: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write script file: %w", err)
	}

	return nil
}
