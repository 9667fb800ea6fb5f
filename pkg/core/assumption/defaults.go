package assumption

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hjson/hjson-go/v4"
)

//go:embed defaults.hjson
var defaultsDoc []byte

// LoadDefaults parses the embedded default assumption document.
func LoadDefaults() (Set, error) {
	return Parse(defaultsDoc)
}

// LoadFile reads an assumption document from disk. Hjson is a superset of
// JSON, so plain JSON files load too.
func LoadFile(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("failed to read assumptions %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes an Hjson (or JSON) assumption document.
func Parse(data []byte) (Set, error) {
	var s Set
	if err := hjson.Unmarshal(data, &s); err != nil {
		return Set{}, fmt.Errorf("failed to parse assumptions: %w", err)
	}
	return s, nil
}

// Merge overlays a partial JSON document onto base and returns the result.
// Only keys present in patch change; base is not modified.
func Merge(base Set, patch []byte) (Set, error) {
	if len(patch) == 0 {
		return base, nil
	}
	merged := base
	if err := json.Unmarshal(patch, &merged); err != nil {
		return Set{}, fmt.Errorf("failed to merge assumptions: %w", err)
	}
	return merged, nil
}
