// Package codec converts an exported chain to and from the supported
// external formats.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/fxamacker/cbor/v2"
)

// Set of supported formats.
const (
	FormatJSON = "json"
	FormatCBOR = "cbor"
)

// cborEnc produces deterministic CBOR with RFC3339 timestamps so the
// creation times survive the round trip in UTC.
var cborEnc cbor.EncMode

func init() {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339

	em, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	cborEnc = em
}

// Formats returns the list of supported formats.
func Formats() []string {
	return []string{FormatJSON, FormatCBOR}
}

// Encode marshals the chain into the specified format. JSON is indented to
// be more human readable.
func Encode(format string, data database.ChainData) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(data, "", "  ")

	case FormatCBOR:
		return cborEnc.Marshal(data)
	}

	return nil, fmt.Errorf("format %q is not supported", format)
}

// Decode unmarshals the chain from the specified format.
func Decode(format string, b []byte) (database.ChainData, error) {
	var data database.ChainData

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(b, &data); err != nil {
			return database.ChainData{}, fmt.Errorf("decoding json: %w", err)
		}

	case FormatCBOR:
		if err := cbor.Unmarshal(b, &data); err != nil {
			return database.ChainData{}, fmt.Errorf("decoding cbor: %w", err)
		}

	default:
		return database.ChainData{}, fmt.Errorf("format %q is not supported", format)
	}

	return data, nil
}
