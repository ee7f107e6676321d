package merge

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/pezkuwi/wallet-config/internal/chain"
	"github.com/pezkuwi/wallet-config/pkg/utils"
)

// XCMDocument is one cross-chain transfer configuration file. The five
// sections are the only ones the format defines; their contents are
// passed through untouched apart from the merge rules below.
type XCMDocument struct {
	AssetsLocation     map[string]json.RawMessage
	Instructions       json.RawMessage
	NetworkDeliveryFee map[string]json.RawMessage
	NetworkBaseWeight  map[string]json.RawMessage
	Chains             chain.Set
}

type xcmWire struct {
	AssetsLocation     map[string]json.RawMessage `json:"assetsLocation"`
	Instructions       json.RawMessage            `json:"instructions,omitempty"`
	NetworkDeliveryFee map[string]json.RawMessage `json:"networkDeliveryFee"`
	NetworkBaseWeight  map[string]json.RawMessage `json:"networkBaseWeight"`
	Chains             []json.RawMessage          `json:"chains"`
}

// ParseXCM decodes one XCM document. path is used for error context.
func ParseXCM(path string, data []byte) (*XCMDocument, error) {
	var wire xcmWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &chain.ParseError{Path: path, Err: err}
	}
	chains, err := chain.FromRaw(path, wire.Chains)
	if err != nil {
		return nil, err
	}
	return &XCMDocument{
		AssetsLocation:     wire.AssetsLocation,
		Instructions:       wire.Instructions,
		NetworkDeliveryFee: wire.NetworkDeliveryFee,
		NetworkBaseWeight:  wire.NetworkBaseWeight,
		Chains:             chains,
	}, nil
}

// LoadXCM reads and decodes one XCM file.
func LoadXCM(path string) (*XCMDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &chain.IOError{Op: "read", Path: path, Err: err}
	}
	return ParseXCM(path, data)
}

// LoadXCMIfExists behaves like LoadXCM, except that a missing file
// yields an empty document.
func LoadXCMIfExists(path string) (*XCMDocument, error) {
	doc, err := LoadXCM(path)
	if err != nil {
		var ioErr *chain.IOError
		if errors.As(err, &ioErr) && errors.Is(ioErr.Err, fs.ErrNotExist) {
			return &XCMDocument{}, nil
		}
		return nil, err
	}
	return doc, nil
}

// XCM merges an overlay XCM document onto a base one:
//   - assetsLocation, networkDeliveryFee, networkBaseWeight: keyed maps,
//     overlay entries added, overlay winning per key
//   - instructions: base's verbatim (the overlay uses the same set)
//   - chains: list merge with the Chains rules, overlay first
func XCM(base, overlay *XCMDocument) *XCMDocument {
	return &XCMDocument{
		AssetsLocation:     mergeRawMap(base.AssetsLocation, overlay.AssetsLocation),
		Instructions:       base.Instructions,
		NetworkDeliveryFee: mergeRawMap(base.NetworkDeliveryFee, overlay.NetworkDeliveryFee),
		NetworkBaseWeight:  mergeRawMap(base.NetworkBaseWeight, overlay.NetworkBaseWeight),
		Chains:             Chains(base.Chains, overlay.Chains),
	}
}

func mergeRawMap(base, overlay map[string]json.RawMessage) map[string]json.RawMessage {
	merged := make(map[string]json.RawMessage, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}

// WriteFile writes the document to path atomically, sections in the
// canonical order.
func (d *XCMDocument) WriteFile(path string) error {
	rawChains := make([]json.RawMessage, len(d.Chains))
	for i, r := range d.Chains {
		rawChains[i] = r.Raw
	}

	wire := xcmWire{
		AssetsLocation:     d.AssetsLocation,
		Instructions:       d.Instructions,
		NetworkDeliveryFee: d.NetworkDeliveryFee,
		NetworkBaseWeight:  d.NetworkBaseWeight,
		Chains:             rawChains,
	}
	if wire.AssetsLocation == nil {
		wire.AssetsLocation = map[string]json.RawMessage{}
	}
	if wire.NetworkDeliveryFee == nil {
		wire.NetworkDeliveryFee = map[string]json.RawMessage{}
	}
	if wire.NetworkBaseWeight == nil {
		wire.NetworkBaseWeight = map[string]json.RawMessage{}
	}

	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return &chain.ParseError{Path: path, Err: err}
	}
	data = append(data, '\n')
	if err := utils.WriteFileAtomic(path, data); err != nil {
		return &chain.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
