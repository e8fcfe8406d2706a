package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// encodeList converts an ordered string list to a JSON array TEXT value.
// HTML escaping is disabled so stored text matches the input byte-for-byte
// where JSON allows it.
func encodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(list); err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// decodeList parses a JSON array TEXT value. Returns an empty slice, never nil.
func decodeList(data string) ([]string, error) {
	if data == "" {
		return []string{}, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}
