package types

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ValueKind discriminates the scalar kinds a details bag may hold.
type ValueKind int

const (
	ValueNone ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
)

// Value is a small closed sum type (string | number | bool | none) used
// for ResourceLock.Details, in place of a free-form interface{} blob. The drift detector relies on being able
// to ask "is this a string?" without a type switch leaking through
// every caller.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
}

func StringValue(s string) Value { return Value{Kind: ValueString, Str: s} }
func NumberValue(n float64) Value { return Value{Kind: ValueNumber, Num: n} }
func BoolValue(b bool) Value      { return Value{Kind: ValueBool, Bool: b} }

// AsString returns (s, true) only when Kind is ValueString; the drift
// detector uses this (through Details.GetString) to silently skip
// mistyped entries rather than panic.
func (v Value) AsString() (string, bool) {
	if v.Kind != ValueString {
		return "", false
	}
	return v.Str, true
}

func (v Value) String() string {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueNumber:
		return fmt.Sprintf("%g", v.Num)
	case ValueBool:
		return fmt.Sprintf("%t", v.Bool)
	default:
		return ""
	}
}

func (v Value) MarshalYAML() (interface{}, error) {
	switch v.Kind {
	case ValueString:
		return v.Str, nil
	case ValueNumber:
		return v.Num, nil
	case ValueBool:
		return v.Bool, nil
	default:
		return nil, nil
	}
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw interface{}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*v = valueFromAny(raw)
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueString:
		return json.Marshal(v.Str)
	case ValueNumber:
		return json.Marshal(v.Num)
	case ValueBool:
		return json.Marshal(v.Bool)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = valueFromAny(raw)
	return nil
}

func valueFromAny(raw interface{}) Value {
	switch t := raw.(type) {
	case string:
		return StringValue(t)
	case int:
		return NumberValue(float64(t))
	case int64:
		return NumberValue(float64(t))
	case float64:
		return NumberValue(t)
	case bool:
		return BoolValue(t)
	default:
		return Value{}
	}
}

// Details is an ordered bag of scalar attributes attached to a
// ResourceLock, e.g. path, content_hash, owner, group, mode,
// service_name, live_hash.
type Details struct {
	*OrderedMap[Value]
}

func NewDetails() Details {
	return Details{OrderedMap: NewOrderedMap[Value]()}
}

// MarshalYAML and UnmarshalYAML are defined explicitly (rather than
// relying on promotion from the embedded *OrderedMap[Value]) so a
// zero-value Details — as produced when yaml.v3 allocates a struct
// field before decoding into it — doesn't dereference a nil pointer.
func (d Details) MarshalYAML() (interface{}, error) {
	if d.OrderedMap == nil {
		return NewOrderedMap[Value](), nil
	}
	return d.OrderedMap.MarshalYAML()
}

func (d *Details) UnmarshalYAML(node *yaml.Node) error {
	d.OrderedMap = NewOrderedMap[Value]()
	return d.OrderedMap.UnmarshalYAML(node)
}

func (d Details) SetString(key, val string) { d.Set(key, StringValue(val)) }

// GetString returns the string value for key, or ("", false) if the
// key is absent or holds a non-string value.
func (d Details) GetString(key string) (string, bool) {
	if d.OrderedMap == nil {
		return "", false
	}
	v, ok := d.Get(key)
	if !ok {
		return "", false
	}
	return v.AsString()
}
