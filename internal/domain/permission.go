package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// PermissionModel maps each intent to the user and group identifiers that
// may perform it on one resource instance. An intent missing from the map is
// granted to nobody but root.
type PermissionModel map[Intent][]string

// Validate checks the structural shape of the model. Intent keys are opaque:
// keys outside the known universe are kept and simply never match a rule.
func (m PermissionModel) Validate() error {
	for intent, subjects := range m {
		if intent == "" {
			return &SchemaError{Field: "permissions", Reason: "empty intent key"}
		}
		for i, s := range subjects {
			if s == "" {
				return &SchemaError{
					Field:  fmt.Sprintf("permissions.%s[%d]", intent, i),
					Reason: "empty subject identifier",
				}
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the model. A nil model stays nil.
func (m PermissionModel) Clone() PermissionModel {
	if m == nil {
		return nil
	}
	out := make(PermissionModel, len(m))
	for intent, subjects := range m {
		out[intent] = slices.Clone(subjects)
	}
	return out
}

// DecodePermissionModel parses a JSON object of intent to identifier lists
// and validates it. Any mistyped value is reported as a SchemaError.
func DecodePermissionModel(data []byte) (PermissionModel, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, &SchemaError{Field: "permissions", Reason: "required"}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &SchemaError{Field: "permissions", Reason: "must be an object"}
	}

	m := make(PermissionModel, len(raw))
	for key, value := range raw {
		var subjects []string
		if err := json.Unmarshal(value, &subjects); err != nil || subjects == nil {
			return nil, &SchemaError{Field: "permissions." + key, Reason: "must be an array of strings"}
		}
		m[Intent(key)] = subjects
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// UnmarshalJSON decodes through DecodePermissionModel so that ledger records
// with malformed permissions surface as schema errors.
func (m *PermissionModel) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = nil
		return nil
	}
	decoded, err := DecodePermissionModel(data)
	if err != nil {
		return err
	}
	*m = decoded
	return nil
}
