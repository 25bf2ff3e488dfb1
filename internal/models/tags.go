package models

import (
	"database/sql/driver"

	"github.com/goccy/go-json"
)

// Tags is a free-form string collection decoded from untyped external data
// (a JSONB column or a cached JSON payload). Decoding never fails: anything
// that is not a JSON array decodes to an empty set, and non-string elements
// are dropped.
type Tags []string

// ParseTags decodes raw JSON into Tags using the tolerant rules above.
func ParseTags(raw []byte) Tags {
	if len(raw) == 0 {
		return nil
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	tags := make(Tags, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			tags = append(tags, s)
		}
	}
	return tags
}

// Scan implements sql.Scanner for JSONB columns.
func (t *Tags) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		*t = ParseTags(v)
	case string:
		*t = ParseTags([]byte(v))
	default:
		*t = nil
	}
	return nil
}

// Value implements driver.Valuer, always writing a JSON array.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return b, nil
}

// UnmarshalJSON accepts any JSON value.
func (t *Tags) UnmarshalJSON(b []byte) error {
	*t = ParseTags(b)
	return nil
}

// MarshalJSON writes an empty array instead of null.
func (t Tags) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}
