package filters

// ActionKind names a filter store action.
type ActionKind string

const (
	ActionCheck     ActionKind = "check"
	ActionUncheck   ActionKind = "uncheck"
	ActionAll       ActionKind = "all"
	ActionSetTerm   ActionKind = "set_term"
	ActionClearTerm ActionKind = "clear_term"
)

// Action is a serializable store mutation, as sent by clients that keep
// their filter checkboxes remote.
type Action struct {
	Kind      ActionKind `json:"action"`
	Dimension Dimension  `json:"dimension,omitempty"`
	Value     string     `json:"value,omitempty"`
}
