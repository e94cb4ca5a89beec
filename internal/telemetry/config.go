package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// state is persisted at <dir>/telemetry.json. The anonymous ID is a random
// UUID generated once and never tied to anything identifiable.
type state struct {
	AnonymousID string `json:"anonymous_id"`
}

// LoadAnonymousID returns the stable anonymous ID stored under dir, creating
// it on first use. An empty dir defaults to ~/.metapod.
func LoadAnonymousID(dir string) (string, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".metapod")
	}

	path := filepath.Join(dir, "telemetry.json")
	if data, err := os.ReadFile(path); err == nil {
		var s state
		if err := json.Unmarshal(data, &s); err == nil && s.AnonymousID != "" {
			return s.AnonymousID, nil
		}
	}

	s := state{AnonymousID: uuid.NewString()}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return s.AnonymousID, nil
}
