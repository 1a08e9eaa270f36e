package file

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

//go:embed defaults/*.txt defaults/README.md
var defaultFS embed.FS

const promptExt = ".txt"

// PromptStore serves LLM prompts from a user-editable directory.
// Missing files fall back to the built-in text. The directory is seeded on
// the first Load, never in the constructor.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu    sync.RWMutex
	cache map[string]string
}

// NewPromptStore returns a store rooted at dir, or HomeDir()/prompts when
// dir is empty.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := HomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]string)}, nil
}

// Load returns the named prompt, preferring the user's file.
func (s *PromptStore) Load(name string) (string, error) {
	s.seedOnce.Do(s.seed)

	s.mu.RLock()
	cached, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	prompt, err := s.read(name)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.cache[name]; ok {
		return existing, nil
	}
	s.cache[name] = prompt
	return prompt, nil
}

// Reload drops cached prompts so the next Load rereads the directory.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) read(name string) (string, error) {
	if s.seedErr == nil {
		data, err := os.ReadFile(filepath.Join(s.dir, name+promptExt))
		if err == nil {
			return strings.TrimSpace(string(data)), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("read prompt %q: %w", name, err)
		}
	}

	if prompt, ok := defaultPrompt(name); ok {
		return prompt, nil
	}
	if s.seedErr != nil {
		return "", fmt.Errorf("load prompt %q: %w", name, s.seedErr)
	}
	return "", fmt.Errorf("load prompt %q: %w", name, fs.ErrNotExist)
}

// seed copies every built-in file that the user has not created yet.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.seedErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	entries, err := defaultFS.ReadDir("defaults")
	if err != nil {
		s.seedErr = err
		return
	}
	for _, e := range entries {
		target := filepath.Join(s.dir, e.Name())
		if _, err := os.Stat(target); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		data, err := defaultFS.ReadFile(path.Join("defaults", e.Name()))
		if err != nil {
			s.seedErr = err
			return
		}
		if err := os.WriteFile(target, data, 0600); err != nil {
			s.seedErr = fmt.Errorf("write %s: %w", e.Name(), err)
			return
		}
	}
}

func defaultPrompt(name string) (string, bool) {
	data, err := defaultFS.ReadFile(path.Join("defaults", name+promptExt))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}
