package sql

import (
	"fmt"
	"strconv"
)

// Datum is a typed constant value. Literals in bound expressions hold one;
// evaluating them against rows is left to the execution engine.
type Datum struct {
	Type  Type
	Value interface{}
}

// NullDatum is the datum of the NULL literal.
var NullDatum = Datum{Type: Null}

// NewDatum creates a datum of the given type.
func NewDatum(t Type, v interface{}) Datum {
	return Datum{Type: t, Value: v}
}

// IsNull returns whether the datum is NULL.
func (d Datum) IsNull() bool {
	return d.Type == Null || d.Value == nil
}

// String implements the fmt.Stringer interface.
func (d Datum) String() string {
	switch v := d.Value.(type) {
	case nil:
		return "NULL"
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}
