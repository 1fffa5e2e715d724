package resolve

import (
	"encoding/json"
	"fmt"

	"github.com/similigh/asana-link/internal/integrations/asana"
)

// FieldValue is a resolved custom field value. The concrete type depends on
// the field subtype: EnumValue, MultiEnumValue or RawValue.
type FieldValue interface {
	json.Marshaler
	fieldValue()
}

// EnumValue is the option id chosen for an enum field.
type EnumValue struct {
	OptionID string
}

// MultiEnumValue holds one option id per requested name. Names that did not
// resolve are kept as empty strings and dropped on encoding. A value is only
// built when at least one name resolved, or when the list was empty.
type MultiEnumValue struct {
	OptionIDs []string
}

// RawValue is passed to the API unchanged.
type RawValue struct {
	Value json.RawMessage
}

func (EnumValue) fieldValue()      {}
func (MultiEnumValue) fieldValue() {}
func (RawValue) fieldValue()       {}

func (v EnumValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.OptionID)
}

func (v MultiEnumValue) MarshalJSON() ([]byte, error) {
	ids := make([]string, 0, len(v.OptionIDs))
	for _, id := range v.OptionIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return json.Marshal(ids)
}

func (v RawValue) MarshalJSON() ([]byte, error) {
	if len(v.Value) == 0 {
		return []byte("null"), nil
	}
	return v.Value, nil
}

// EncodeFields converts resolved values into the request representation.
func EncodeFields(values map[string]FieldValue) (map[string]json.RawMessage, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]json.RawMessage, len(values))
	for id, v := range values {
		data, err := v.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("encoding custom field %s: %w", id, err)
		}
		out[id] = data
	}
	return out, nil
}

// FindField returns the project custom field matching the update's name or id.
func FindField(settings []asana.CustomFieldSetting, update FieldUpdate) (asana.CustomField, bool) {
	for _, s := range settings {
		cf := s.CustomField
		if update.Name != "" {
			if cf.Name == update.Name {
				return cf, true
			}
		} else if cf.GID == update.ID {
			return cf, true
		}
	}
	return asana.CustomField{}, false
}

// ResolveFields maps each update onto a field id and value. Unknown fields and
// unknown enum options are reported per field and never abort the batch.
func ResolveFields(settings []asana.CustomFieldSetting, updates []FieldUpdate) (map[string]FieldValue, []error) {
	values := make(map[string]FieldValue, len(updates))
	var errs []error

	for _, update := range updates {
		cf, ok := FindField(settings, update)
		if !ok || cf.GID == "" {
			errs = append(errs, fmt.Errorf("asana custom field %s not found", update.Label()))
			continue
		}

		options := make(map[string]string, len(cf.EnumOptions))
		for _, opt := range cf.EnumOptions {
			options[opt.Name] = opt.GID
		}

		switch cf.ResourceSubtype {
		case asana.SubtypeEnum:
			var name string
			if err := json.Unmarshal(update.Value, &name); err != nil {
				errs = append(errs, fmt.Errorf("asana custom field %s expects a single option name: %v", update.Label(), err))
				continue
			}
			id, ok := options[name]
			if !ok {
				errs = append(errs, fmt.Errorf("asana custom field enum value %s not found in %s field", name, update.Label()))
				continue
			}
			values[cf.GID] = EnumValue{OptionID: id}

		case asana.SubtypeMultiEnum:
			var names []string
			if err := json.Unmarshal(update.Value, &names); err != nil {
				errs = append(errs, fmt.Errorf("asana custom field %s expects a list of option names: %v", update.Label(), err))
				continue
			}
			ids := make([]string, len(names))
			resolved := 0
			for i, name := range names {
				id, ok := options[name]
				if !ok {
					errs = append(errs, fmt.Errorf("asana custom field enum value %s not found in %s field", name, update.Label()))
					continue
				}
				ids[i] = id
				resolved++
			}
			// An empty list would clear the field.
			if len(names) > 0 && resolved == 0 {
				continue
			}
			values[cf.GID] = MultiEnumValue{OptionIDs: ids}

		default:
			values[cf.GID] = RawValue{Value: update.Value}
		}
	}

	return values, errs
}
