package util

import (
	"bytes"
	"encoding/json"
)

// JSONIndent encodes val using indent for each level. HTML characters are not
// escaped and there is no trailing newline.
func JSONIndent(val any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(val); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// DecodeJSON decodes buf keeping numbers as json.Number.
func DecodeJSON(buf []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.UseNumber()
	var res any
	if err := dec.Decode(&res); err != nil {
		return nil, err
	}
	return res, nil
}
