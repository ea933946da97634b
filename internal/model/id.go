package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID はリモートの識別子です。文字列でも数値でも受け付け、常に文字列として扱います
type ID string

// String implements fmt.Stringer
func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON は文字列・数値・null を受け付けます
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}
