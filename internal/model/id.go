package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID is a record identifier.  The external JSON store hands out numeric
// ids for some collections and string ids for others, so ID accepts both
// on decode and always encodes as a string.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// FromUint formats a numeric id.
func FromUint(n uint64) ID { return ID(strconv.FormatUint(n, 10)) }
