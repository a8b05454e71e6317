package tileset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ValueType tags the variant held by a Value.
type ValueType int

const (
	TypeString ValueType = iota
	TypeFile
	TypeInt
	TypeFloat
	TypeBool
	TypeColor
)

var valueTypeNames = map[ValueType]string{
	TypeString: "string",
	TypeFile:   "file",
	TypeInt:    "int",
	TypeFloat:  "float",
	TypeBool:   "bool",
	TypeColor:  "color",
}

func (t ValueType) String() string {
	if s, ok := valueTypeNames[t]; ok {
		return s
	}
	return "ValueType(" + strconv.Itoa(int(t)) + ")"
}

// ParseValueType maps a descriptor type label to a ValueType. An empty label is a string.
func ParseValueType(label string) (ValueType, bool) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return TypeString, true
	}
	for t, name := range valueTypeNames {
		if name == label {
			return t, true
		}
	}
	return 0, false
}

// Value is a typed property value. The zero Value is an empty string.
type Value struct {
	typ ValueType
	str string
	num float64
	b   bool
}

func StringValue(s string) Value { return Value{typ: TypeString, str: s} }

// FileValue holds a path, resolved against the tileset's base directory at load time.
func FileValue(path string) Value { return Value{typ: TypeFile, str: path} }

func IntValue(n int) Value { return Value{typ: TypeInt, num: float64(n)} }

func FloatValue(f float64) Value { return Value{typ: TypeFloat, num: f} }

func BoolValue(b bool) Value { return Value{typ: TypeBool, b: b} }

func ColorValue(c string) Value { return Value{typ: TypeColor, str: c} }

// Type returns the variant tag.
func (v Value) Type() ValueType { return v.typ }

func (v Value) AsString() (string, bool) {
	if v.typ != TypeString {
		return "", false
	}
	return v.str, true
}

func (v Value) AsFile() (string, bool) {
	if v.typ != TypeFile {
		return "", false
	}
	return v.str, true
}

func (v Value) AsInt() (int, bool) {
	if v.typ != TypeInt {
		return 0, false
	}
	return int(v.num), true
}

// AsFloat accepts both int and float values.
func (v Value) AsFloat() (float64, bool) {
	if v.typ != TypeFloat && v.typ != TypeInt {
		return 0, false
	}
	return v.num, true
}

func (v Value) AsBool() (bool, bool) {
	if v.typ != TypeBool {
		return false, false
	}
	return v.b, true
}

func (v Value) AsColor() (string, bool) {
	if v.typ != TypeColor {
		return "", false
	}
	return v.str, true
}

func (v Value) String() string {
	switch v.typ {
	case TypeInt:
		return strconv.Itoa(int(v.num))
	case TypeFloat:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case TypeBool:
		return strconv.FormatBool(v.b)
	default:
		return v.str
	}
}

// ParseValue converts a raw descriptor string into a Value of the given type.
func ParseValue(typ ValueType, raw string) (Value, error) {
	switch typ {
	case TypeString:
		return StringValue(raw), nil
	case TypeFile:
		return FileValue(raw), nil
	case TypeColor:
		return ColorValue(raw), nil
	case TypeInt:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Value{}, fmt.Errorf("parse int %q: %w", raw, err)
		}
		return IntValue(n), nil
	case TypeFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Value{}, fmt.Errorf("parse float %q: %w", raw, err)
		}
		return FloatValue(f), nil
	case TypeBool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return Value{}, fmt.Errorf("parse bool %q: %w", raw, err)
		}
		return BoolValue(b), nil
	}
	return Value{}, fmt.Errorf("unknown value type %v", typ)
}

// Properties is a named bag of typed values.
type Properties map[string]Value

// Get returns the value stored under key. A nil bag has no values.
func (p Properties) Get(key string) (Value, bool) {
	v, ok := p[key]
	return v, ok
}

// Keys returns property names in sorted order.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
