package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// PrettyJSON marshals a value as indented JSON.
func PrettyJSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return b, nil
}

// UniquePath returns dir/base.suffix, or the first free dir/base__N.suffix
// (N >= 2) when that name is taken. The bool reports whether a suffix was added.
func UniquePath(dir, base, suffix string) (string, bool) {
	out := filepath.Join(dir, base+"."+suffix)
	if _, err := os.Stat(out); os.IsNotExist(err) {
		return out, false
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d.%s", base, idx, suffix))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand, true
		}
	}
}
