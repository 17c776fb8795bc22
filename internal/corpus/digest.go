// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// digestJCS canonicalizes the JSON encoding of v (RFC 8785) and returns its
// sha256 hex digest, so equal content yields equal digests regardless of
// source formatting.
func digestJCS(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshaling for digest: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalizing: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// stableSourceID derives a 12-character source identifier from a record's
// persona, axis, record type, and text.
func stableSourceID(persona string, axis int, recordType, text string) string {
	d, err := digestJCS(map[string]any{
		"persona":     persona,
		"axis_value":  axis,
		"record_type": recordType,
		"text":        text,
	})
	if err != nil {
		sum := sha256.Sum256([]byte(persona + recordType + text))
		d = hex.EncodeToString(sum[:])
	}
	return d[:12]
}
