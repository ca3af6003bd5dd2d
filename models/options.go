package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// OptionList holds the choices offered by a dropdown or checkbox question.
// Stored as a JSON array in a TEXT column.
type OptionList []string

func (o OptionList) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	b, err := json.Marshal([]string(o))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (o *OptionList) Scan(src interface{}) error {
	if src == nil {
		*o = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("options: cannot scan %T", src)
	}
	if len(raw) == 0 {
		*o = nil
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(o))
}

// OptionSet holds the options an end user picked on a checkbox or dropdown
// answer. The wire and storage format is a comma-joined string; parsing
// happens only here, and duplicates are dropped while first-seen order is
// kept.
type OptionSet []string

// ParseOptionSet splits a comma-joined string into a deduplicated set.
func ParseOptionSet(raw string) OptionSet {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var set OptionSet
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		set = append(set, part)
	}
	return set
}

func (s OptionSet) Contains(option string) bool {
	for _, v := range s {
		if v == option {
			return true
		}
	}
	return false
}

// String renders the set back into its comma-joined wire form.
func (s OptionSet) String() string {
	return strings.Join([]string(s), ",")
}

func (s OptionSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	return json.Marshal(s.String())
}

func (s *OptionSet) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = nil
		return nil
	}
	// Comma-joined string is the canonical form; a plain array is also
	// accepted from clients.
	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		*s = ParseOptionSet(joined)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("selected_options: expected string or array: %w", err)
	}
	*s = ParseOptionSet(strings.Join(list, ","))
	return nil
}

func (s OptionSet) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return s.String(), nil
}

func (s *OptionSet) Scan(src interface{}) error {
	if src == nil {
		*s = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		*s = ParseOptionSet(string(v))
	case string:
		*s = ParseOptionSet(v)
	default:
		return fmt.Errorf("selected_options: cannot scan %T", src)
	}
	return nil
}
