package domain

// Violation describes one failed field constraint in the wire format
// clients receive under "detail":
//
//	{"loc": ["body", "age"], "msg": "ensure this value is greater than or equal to 13", "type": "value_error.number.not_ge"}
type Violation struct {
	// Loc is the path to the offending value, starting at "body".
	Loc []string `json:"loc"`
	// Msg is a human-readable description.
	Msg string `json:"msg"`
	// Type is a stable, machine-readable violation kind.
	Type string `json:"type"`
}

// Violation kinds.
const (
	KindMissing      = "missing"
	KindTypeStr      = "type_error.str"
	KindTypeInteger  = "type_error.integer"
	KindTypeBool     = "type_error.bool"
	KindMinLength    = "value_error.any_str.min_length"
	KindMaxLength    = "value_error.any_str.max_length"
	KindEmail        = "value_error.email"
	KindNumberNotGE  = "value_error.number.not_ge"
	KindNumberNotLE  = "value_error.number.not_le"
	KindInvalidValue = "value_error"
)

// FieldLoc builds the location path for a top-level body field.
func FieldLoc(field string) []string { return []string{"body", field} }
