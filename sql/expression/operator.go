package expression

// Operator is the operator of a UnaryOp or a BinaryOp.
type Operator uint8

const (
	Plus Operator = iota
	Minus
	Multiply
	Divide
	Modulo
	Equals
	NotEquals
	LessThan
	LessOrEqual
	GreaterThan
	GreaterOrEqual
	And
	Or
	Like
	Negate
	Positive
	Not
	IsNull
	IsNotNull
)

var operatorSymbols = map[Operator]string{
	Plus:           "+",
	Minus:          "-",
	Multiply:       "*",
	Divide:         "/",
	Modulo:         "%",
	Equals:         "=",
	NotEquals:      "!=",
	LessThan:       "<",
	LessOrEqual:    "<=",
	GreaterThan:    ">",
	GreaterOrEqual: ">=",
	And:            "AND",
	Or:             "OR",
	Like:           "LIKE",
	Negate:         "-",
	Positive:       "+",
	Not:            "NOT ",
	IsNull:         "IS NULL",
	IsNotNull:      "IS NOT NULL",
}

func (o Operator) String() string { return operatorSymbols[o] }

// IsArithmetic returns whether the operator computes a number.
func (o Operator) IsArithmetic() bool { return o <= Modulo }

// IsComparison returns whether the operator compares its operands.
func (o Operator) IsComparison() bool { return o >= Equals && o <= GreaterOrEqual }

// IsLogical returns whether the operator combines boolean operands.
func (o Operator) IsLogical() bool { return o == And || o == Or || o == Not }
