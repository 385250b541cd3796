package model

import (
	"bytes"
	"encoding/json"
)

// Ref is a reference to another document. Depending on whether a
// populated query produced the payload, the wire form is either a bare
// id string or a full object carrying an "id" (or legacy "_id") field.
// Both forms unmarshal to the canonical id, so every identity
// comparison in the system goes through one resolver instead of ad hoc
// type checks per call site.
type Ref struct {
	id string
}

// NewRef builds a reference from a canonical id.
func NewRef(id string) Ref { return Ref{id: id} }

// ID returns the canonical id, empty for an unset reference.
func (r Ref) ID() string { return r.id }

// IsZero reports whether the reference is unset.
func (r Ref) IsZero() bool { return r.id == "" }

// Is compares the reference against a canonical user id.
func (r Ref) Is(userID string) bool { return r.id != "" && r.id == userID }

func (r Ref) MarshalJSON() ([]byte, error) {
	if r.id == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		r.id = ""
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &r.id)
	}
	var populated struct {
		ID       string `json:"id"`
		LegacyID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &populated); err != nil {
		return err
	}
	if populated.ID != "" {
		r.id = populated.ID
	} else {
		r.id = populated.LegacyID
	}
	return nil
}
