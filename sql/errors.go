package sql

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrInvalidQuery is the only error returned by the analyzer. The
	// underlying reason is available as its cause.
	ErrInvalidQuery = errors.NewKind("invalid query: %s")

	// ErrUnsupportedStatement is returned when the analyzer receives a
	// statement it does not know how to bind.
	ErrUnsupportedStatement = errors.NewKind("unsupported statement: %T")

	// ErrTableNotFound is returned when the table is not available from the
	// current scope or the catalog.
	ErrTableNotFound = errors.NewKind("table not found: %s")

	// ErrTableAlreadyExists is thrown when someone tries to create a
	// table with a name of an existing one
	ErrTableAlreadyExists = errors.NewKind("table with name %s already exists")

	// ErrTableColumnNotFound is thrown when a qualified column cannot be found
	// in its table.
	ErrTableColumnNotFound = errors.NewKind("table %q does not have column %q")

	// ErrColumnNotFound is returned when the column does not exist in any
	// table in scope.
	ErrColumnNotFound = errors.NewKind("column %q could not be found in any table in scope")

	// ErrAmbiguousColumnName is returned when there is a column reference that
	// is present in more than one table.
	ErrAmbiguousColumnName = errors.NewKind("ambiguous column name %q, it's present in all these tables: %v")

	// ErrDuplicateAlias should be returned when a query contains a duplicate
	// alias / table name.
	ErrDuplicateAlias = errors.NewKind("not unique table/alias: %s")

	// ErrFunctionNotFound is returned when no function matches the name and
	// argument types of a call.
	ErrFunctionNotFound = errors.NewKind("function not found: %s(%s)")

	// ErrFunctionAlreadyExists is returned when a function with the same
	// signature is registered twice.
	ErrFunctionAlreadyExists = errors.NewKind("function %s(%s) is already registered")

	// ErrInvalidLiteral is returned when a literal cannot be parsed into a
	// value of its type.
	ErrInvalidLiteral = errors.NewKind("invalid %s literal: %s")

	// ErrTypeMismatch is returned when the operands of an expression have
	// types the operator does not accept.
	ErrTypeMismatch = errors.NewKind("type mismatch: %s")

	// ErrUnknownStoreType is returned for a store type outside the known ones.
	ErrUnknownStoreType = errors.NewKind("unknown store type: %s")

	// ErrUnknownIndexMethod is returned for an index method outside the known
	// ones.
	ErrUnknownIndexMethod = errors.NewKind("unknown index method: %s")

	// ErrIndexNotFound is returned when an index does not exist.
	ErrIndexNotFound = errors.NewKind("index not found: %s")

	// ErrIndexAlreadyExists is returned when an index name is already taken.
	ErrIndexAlreadyExists = errors.NewKind("index with name %s already exists")

	// ErrNoCommonColumns is returned by a natural join between two sides
	// without any column in common when the join policy rejects it.
	ErrNoCommonColumns = errors.NewKind("natural join between %s and %s has no common columns")

	// ErrJoinColumnNotFound is returned when a USING column is missing on one
	// side of the join.
	ErrJoinColumnNotFound = errors.NewKind("column %q in USING clause is not present on both sides of the join")

	// ErrInvalidJoin is returned when a join has a condition its type does
	// not accept.
	ErrInvalidJoin = errors.NewKind("invalid join: %s")

	// ErrInvalidGroupBy is returned when a GROUP BY item is not a column.
	ErrInvalidGroupBy = errors.NewKind("group by only accepts columns, got %s")

	// ErrGroupByViolation is returned with the strict grouping policy when a
	// target references a column that is neither grouped nor aggregated.
	ErrGroupByViolation = errors.NewKind("column %q must appear in the GROUP BY clause or be used in an aggregate function")

	// ErrAggregateInWhere is returned when an aggregation is used in WHERE.
	ErrAggregateInWhere = errors.NewKind("aggregate function %s is not allowed in WHERE")

	// ErrInvalidSortKey is returned when an ORDER BY item or an index column is
	// not a column reference.
	ErrInvalidSortKey = errors.NewKind("sort key must be a column, got %s")

	// ErrCatalogUnavailable is returned by catalog implementations when the
	// catalog could not be reached.
	ErrCatalogUnavailable = errors.NewKind("catalog unavailable: %s")
)
