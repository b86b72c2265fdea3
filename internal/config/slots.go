package config

import (
	"bytes"
	"encoding/json"
)

// SlotSpec describes how one matched template element is filled from an
// article. Each field is a sub-selector scoped to the matched element. An
// empty Title or Href means "apply to the matched element itself"; an empty
// Subtitle, Image or Author means "leave that field alone".
type SlotSpec struct {
	// Heading carries the literal text of the plain-string shorthand form.
	// The binder supersedes it with the bound article's own title; it exists
	// so terse configurations can label a selector without sub-selectors.
	Heading string `json:"-"`

	Title    string `json:"title,omitempty"`
	Href     string `json:"href,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Image    string `json:"image,omitempty"`
	Author   string `json:"author,omitempty"`
}

// Slot pairs a template selector with its normalized spec.
type Slot struct {
	Selector string
	Spec     SlotSpec
}

// SlotConfig is an ordered list of slots. Order is significant: earlier
// selectors consume articles first.
type SlotConfig []Slot

// UnmarshalJSON decodes the JSON-object form of a slot configuration while
// preserving key order, which encoding/json's map decoding would discard.
// Each value may be null, a bare string, or a full spec object; all three
// normalize to a SlotSpec at this boundary so the binder never branches on
// value shape.
func (sc *SlotConfig) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		// Tolerate a null slot configuration.
		*sc = nil
		return nil
	}

	var slots SlotConfig
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return &Error{Message: "slot configuration key is not a string"}
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		slots = append(slots, Slot{Selector: key, Spec: NormalizeSpec(raw)})
	}

	*sc = slots
	return nil
}

// NormalizeSpec converts one loosely-typed slot value into a SlotSpec.
// Source configuration is trusted but may be terse: null and malformed
// values yield the zero spec, a bare string becomes a heading literal.
func NormalizeSpec(raw json.RawMessage) SlotSpec {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return SlotSpec{}
	}

	if trimmed[0] == '"' {
		var heading string
		if err := json.Unmarshal(trimmed, &heading); err != nil {
			return SlotSpec{}
		}
		return SlotSpec{Heading: heading}
	}

	var spec SlotSpec
	if err := json.Unmarshal(trimmed, &spec); err != nil {
		return SlotSpec{}
	}
	return spec
}
