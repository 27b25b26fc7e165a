package common

import (
	"bytes"

	"github.com/goccy/go-json"
)

// ToIndentedJSON 轉為縮排兩格、不轉義 HTML 的 JSON
func ToIndentedJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
