package sql

import (
	"strings"

	errors "gopkg.in/src-d/go-errors.v1"
)

// ErrUnknownType is returned when a declared type name does not map to any
// known type.
var ErrUnknownType = errors.NewKind("unknown data type: %s")

// ErrInvalidColumnType is returned when a column is declared with a type
// that only expressions can have.
var ErrInvalidColumnType = errors.NewKind("%s is not a valid column type")

// Type is the static type of a column or expression.
type Type uint8

const (
	// Null is the type of the NULL literal. It is compatible with every other
	// type.
	Null Type = iota
	Boolean
	Byte
	Char
	Short
	Int
	Long
	Float
	Double
	String
	Text
	Bytes
	Date
	Inet4
	// Any is accepted only as a function return type.
	Any
)

var typeNames = map[Type]string{
	Null:    "NULL",
	Boolean: "BOOLEAN",
	Byte:    "BYTE",
	Char:    "CHAR",
	Short:   "SHORT",
	Int:     "INT",
	Long:    "LONG",
	Float:   "FLOAT",
	Double:  "DOUBLE",
	String:  "STRING",
	Text:    "TEXT",
	Bytes:   "BYTES",
	Date:    "DATE",
	Inet4:   "INET4",
	Any:     "ANY",
}

var typeAliases = map[string]Type{
	"bool":     Boolean,
	"boolean":  Boolean,
	"byte":     Byte,
	"tinyint":  Byte,
	"char":     Char,
	"short":    Short,
	"smallint": Short,
	"int":      Int,
	"int4":     Int,
	"integer":  Int,
	"long":     Long,
	"int8":     Long,
	"bigint":   Long,
	"float":    Float,
	"float4":   Float,
	"real":     Float,
	"double":   Double,
	"float8":   Double,
	"string":   String,
	"varchar":  String,
	"text":     Text,
	"bytes":    Bytes,
	"blob":     Bytes,
	"date":     Date,
	"inet4":    Inet4,
	"ipv4":     Inet4,
	"null":     Null,
	"any":      Any,
}

// ParseType returns the type with the given name. Names are matched
// case-insensitively and common SQL aliases are accepted.
func ParseType(name string) (Type, error) {
	t, ok := typeAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Null, ErrUnknownType.New(name)
	}
	return t, nil
}

// ParseColumnType returns the type with the given name, which must be a type
// a column can be declared with. NULL and ANY are expression types only.
func ParseColumnType(name string) (Type, error) {
	t, err := ParseType(name)
	if err != nil {
		return Null, err
	}
	if t == Null || t == Any {
		return Null, ErrInvalidColumnType.New(t)
	}
	return t, nil
}

// String implements the fmt.Stringer interface.
func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "UNKNOWN"
}

// IsNumeric returns whether the type is one of the numeric types.
func (t Type) IsNumeric() bool {
	return t >= Byte && t <= Double && t != Char
}

// IsCharacter returns whether the type holds character data.
func (t Type) IsCharacter() bool {
	return t == Char || t == String || t == Text
}

// numericRank orders numeric types by width.
var numericRank = map[Type]int{
	Byte:   1,
	Short:  2,
	Int:    3,
	Long:   4,
	Float:  5,
	Double: 6,
}

// WiderNumeric returns the widest of two numeric types. Null yields the other
// operand.
func WiderNumeric(a, b Type) Type {
	if a == Null {
		return b
	}
	if b == Null {
		return a
	}
	if numericRank[a] >= numericRank[b] {
		return a
	}
	return b
}

// Comparable returns whether values of both types can be compared with each
// other.
func Comparable(a, b Type) bool {
	switch {
	case a == Null || b == Null:
		return true
	case a == b:
		return true
	case a.IsNumeric() && b.IsNumeric():
		return true
	case a.IsCharacter() && b.IsCharacter():
		return true
	default:
		return false
	}
}
