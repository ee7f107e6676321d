package chain

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/pezkuwi/wallet-config/pkg/utils"
)

// Record is one network's configuration entry. Only chainId is
// interpreted; everything else (nodes, assets, icons, explorers,
// options) passes through exactly as read, in the source key order.
type Record struct {
	ChainID string
	Raw     json.RawMessage
}

// Set is an ordered sequence of records read from one JSON source file.
type Set []Record

// FromRaw extracts records from the elements of a decoded JSON array.
// path is used for error context only.
func FromRaw(path string, elems []json.RawMessage) (Set, error) {
	set := make(Set, 0, len(elems))
	for i, elem := range elems {
		var key struct {
			ChainID string `json:"chainId"`
		}
		if err := json.Unmarshal(elem, &key); err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		if key.ChainID == "" {
			return nil, &SchemaError{Path: path, Index: i}
		}

		var compact bytes.Buffer
		if err := json.Compact(&compact, elem); err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		set = append(set, Record{ChainID: key.ChainID, Raw: json.RawMessage(compact.Bytes())})
	}
	return set, nil
}

// ParseSet decodes a JSON array of records.
func ParseSet(path string, data []byte) (Set, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return FromRaw(path, elems)
}

// LoadSet reads and decodes one record file.
func LoadSet(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return ParseSet(path, data)
}

// LoadSetIfExists behaves like LoadSet, except that a missing or empty
// file yields an empty set. Overlay files are optional.
func LoadSetIfExists(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Set{}, nil
		}
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Set{}, nil
	}
	return ParseSet(path, data)
}

// MarshalIndent renders the set as a two-space indented JSON array with
// a trailing newline. Record key order is preserved as read, so the
// output is byte-identical across runs with identical inputs.
func (s Set) MarshalIndent() ([]byte, error) {
	var arr bytes.Buffer
	arr.WriteByte('[')
	for i, r := range s {
		if i > 0 {
			arr.WriteByte(',')
		}
		arr.Write(r.Raw)
	}
	arr.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, arr.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// WriteFile writes the set to path atomically.
func (s Set) WriteFile(path string) error {
	data, err := s.MarshalIndent()
	if err != nil {
		return &ParseError{Path: path, Err: err}
	}
	if err := utils.WriteFileAtomic(path, data); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
