package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
)

func TestPromptStore_ImplementsInterface(t *testing.T) {
	var _ driven.PromptStore = (*PromptStore)(nil)
}

func TestNewPromptStore_DefaultDirUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)

	store, err := NewPromptStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "prompts"), store.Dir())
}

func TestPromptStore_Load_CreatesDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptBarcodeReader)
	require.NoError(t, err)
	assert.Contains(t, prompt, "one per line")

	assert.FileExists(t, filepath.Join(dir, "barcode_reader.txt"))
	assert.FileExists(t, filepath.Join(dir, "README.md"))
}

func TestPromptStore_Load_ReturnsCustomContent(t *testing.T) {
	dir := t.TempDir()
	custom := "List every 13 digit number you can see."
	require.NoError(t, os.WriteFile(filepath.Join(dir, "barcode_reader.txt"), []byte("\n  "+custom+"  \n"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptBarcodeReader)

	require.NoError(t, err)
	assert.Equal(t, custom, prompt)

	data, err := os.ReadFile(filepath.Join(dir, "barcode_reader.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), custom, "existing files are not overwritten")
}

func TestPromptStore_Load_FallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, _ = store.Load(driven.PromptBarcodeReader)
	require.NoError(t, os.Remove(filepath.Join(dir, "barcode_reader.txt")))
	store.Reload()

	prompt, err := store.Load(driven.PromptBarcodeReader)

	require.NoError(t, err)
	want, ok := defaultPrompt(driven.PromptBarcodeReader)
	require.True(t, ok)
	assert.Equal(t, want, prompt)
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("nonexistent_prompt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent_prompt")
}

func TestPromptStore_CacheAndReload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	first, err := store.Load(driven.PromptBarcodeReader)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "barcode_reader.txt"), []byte("edited"), 0600))

	cached, err := store.Load(driven.PromptBarcodeReader)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	store.Reload()
	reloaded, err := store.Load(driven.PromptBarcodeReader)
	require.NoError(t, err)
	assert.Equal(t, "edited", reloaded)
}

func TestPromptStore_Load_ConcurrentAccess(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	const goroutines = 50
	results := make([]string, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prompt, err := store.Load(driven.PromptBarcodeReader)
			assert.NoError(t, err)
			results[i] = prompt
		}()
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
}
