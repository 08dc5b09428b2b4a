package eventlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// marshalOptions converts Options to JSON TEXT with stable key order.
func marshalOptions(o Options) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(o); err != nil {
		return "", fmt.Errorf("marshal options: %w", err)
	}
	// Encoder adds a trailing newline
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalOptions parses JSON TEXT to Options.
func unmarshalOptions(data string) (Options, error) {
	var o Options
	if data == "" || data == "{}" {
		return o, nil
	}
	if err := json.Unmarshal([]byte(data), &o); err != nil {
		return Options{}, fmt.Errorf("unmarshal options: %w", err)
	}
	return o, nil
}
