package models

// FilterOperator represents a filter comparison operator
type FilterOperator string

const (
	OpEqual          FilterOperator = "="
	OpGreaterOrEqual FilterOperator = ">="
	OpLessOrEqual    FilterOperator = "<="
	OpLike           FilterOperator = "LIKE"
	OpListContains   FilterOperator = "LIST CONTAINS"   // Comma separated column contains value
	OpAttributeEqual FilterOperator = "ATTRIBUTE EQUAL" // Card has user attribute Column = Value
)

// FilterCondition represents a single SQL condition. Column is always a
// trusted column expression, never user input.
type FilterCondition struct {
	Column   string
	Operator FilterOperator
	Value    interface{}
}

// FilterGroup represents a group of conditions with AND/OR logic
type FilterGroup struct {
	Conditions []FilterCondition
	Logic      string // "AND" or "OR"
	Groups     []FilterGroup
}

// IsEmpty reports whether the group has nothing to render
func (g FilterGroup) IsEmpty() bool {
	return len(g.Conditions) == 0 && len(g.Groups) == 0
}
