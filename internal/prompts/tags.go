package prompts

import (
	"encoding/json"
	"slices"
	"strings"
)

// Tags is a set of lower-cased, trimmed, unique labels kept in insertion order.
type Tags []string

// NewTags builds a normalized tag set from raw values.
func NewTags(raw ...string) Tags {
	t := Tags{}
	for _, r := range raw {
		t = t.Add(r)
	}
	return t
}

// Add returns the set with raw appended after trimming and lower-casing.
// Blank and duplicate values leave the set unchanged.
func (t Tags) Add(raw string) Tags {
	tag := normalizeTag(raw)
	if tag == "" || slices.Contains(t, tag) {
		return t
	}
	return append(slices.Clip(t), tag)
}

// Remove returns the set without tag.
func (t Tags) Remove(tag string) Tags {
	tag = normalizeTag(tag)
	out := make(Tags, 0, len(t))
	for _, v := range t {
		if v != tag {
			out = append(out, v)
		}
	}
	return out
}

// Contains reports whether tag is in the set.
func (t Tags) Contains(tag string) bool {
	return slices.Contains(t, normalizeTag(tag))
}

// Equal reports whether both sets hold the same tags in any order.
func (t Tags) Equal(other Tags) bool {
	a := slices.Sorted(slices.Values(t))
	b := slices.Sorted(slices.Values(other))
	return slices.Equal(a, b)
}

// String joins the tags with ", ".
func (t Tags) String() string {
	return strings.Join(t, ", ")
}

// MarshalJSON encodes a nil set as an empty array.
func (t Tags) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}

// UnmarshalJSON normalizes decoded tags.
func (t *Tags) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*t = nil
		return nil
	}
	*t = NewTags(raw...)
	return nil
}

// ParseTagInput splits free-form tag entry on commas and line breaks,
// the separators the editor treats as "add tag".
func ParseTagInput(input string) []string {
	parts := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeTag(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
