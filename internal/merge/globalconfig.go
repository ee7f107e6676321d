package merge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"dario.cat/mergo"
	"github.com/pezkuwi/wallet-config/internal/chain"
	"github.com/pezkuwi/wallet-config/pkg/utils"
)

// GlobalConfig deep-merges the overlay document onto the base one, the
// overlay winning on conflicts. The overlay is a partial document (e.g.
// stakingApiOverrides only), so unlike chain records this merge is
// field-level by design of the format.
func GlobalConfig(base, overlay map[string]any) (map[string]any, error) {
	// Copy base first so the merge never reaches into the caller's maps.
	merged := deepCopy(base)
	if err := mergo.Merge(&merged, overlay, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge config overlay: %w", err)
	}
	return merged, nil
}

func deepCopy(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		if nested, ok := v.(map[string]any); ok {
			dst[k] = deepCopy(nested)
			continue
		}
		dst[k] = v
	}
	return dst
}

// LoadDocument reads one JSON object file into a generic map.
func LoadDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &chain.IOError{Op: "read", Path: path, Err: err}
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &chain.ParseError{Path: path, Err: err}
	}
	return doc, nil
}

// LoadDocumentIfExists behaves like LoadDocument, except that a missing
// file yields an empty document.
func LoadDocumentIfExists(path string) (map[string]any, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		var ioErr *chain.IOError
		if errors.As(err, &ioErr) && errors.Is(ioErr.Err, fs.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	return doc, nil
}

// WriteDocument writes a JSON object to path atomically, two-space
// indented with a trailing newline. Keys sort alphabetically, which is
// deterministic across runs.
func WriteDocument(path string, doc map[string]any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &chain.ParseError{Path: path, Err: err}
	}
	data = append(data, '\n')
	if err := utils.WriteFileAtomic(path, data); err != nil {
		return &chain.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
