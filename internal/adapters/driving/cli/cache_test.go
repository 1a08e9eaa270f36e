package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/labelscan/internal/core/domain"
)

func TestCacheStats(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	testCache.stats = domain.NewCacheStats(3, 1, 12)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"cache", "stats"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Entries:  12")
	assert.Contains(t, buf.String(), "Hit rate: 75.00%")
}

func TestCacheClear(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	testCache.cleared = 4

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"cache", "clear"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Removed 4 cache entries.")
}

func TestCache_Disabled(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	visionCache = nil

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"cache", "stats"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, errCacheDisabled)
}
