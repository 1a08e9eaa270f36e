package file

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv overrides the labelscan home directory.
const HomeEnv = "LABELSCAN_HOME"

// HomeDir returns $LABELSCAN_HOME, or ~/.labelscan when unset.
func HomeDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".labelscan"), nil
}
