package reporting

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSON writes the full report as indented JSON.
func WriteJSON(r *Report, path string) error {
	if err := EnsureDirectoryExists(path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
