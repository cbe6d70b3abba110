package authz

// Action is a permission-relevant operation on a resource
type Action string

const (
	ActionRead    Action = "read"
	ActionWrite   Action = "write"
	ActionDestroy Action = "destroy"
	ActionExport  Action = "export"
)

// IsValid checks if the action is a known Action
func (a Action) IsValid() bool {
	switch a {
	case ActionRead, ActionWrite, ActionDestroy, ActionExport:
		return true
	}
	return false
}

// String returns the string representation of Action
func (a Action) String() string {
	return string(a)
}
