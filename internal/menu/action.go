package menu

// Action is a menu action the router knows how to handle.
type Action int

const (
	// ActionUnknown is any identifier not issued by this menu.
	ActionUnknown Action = iota
	ActionCheckForUpdates
	ActionToggleDevTools
)

// Stable menu identifiers, visible to the OS.
const (
	IDCheckForUpdates = "check_for_updates"
	IDToggleDevTools  = "toggle_devtools"
)

// ParseAction maps a menu identifier to its Action.
func ParseAction(id string) Action {
	switch id {
	case IDCheckForUpdates:
		return ActionCheckForUpdates
	case IDToggleDevTools:
		return ActionToggleDevTools
	default:
		return ActionUnknown
	}
}

// ID returns the menu identifier, or "" for ActionUnknown.
func (a Action) ID() string {
	switch a {
	case ActionCheckForUpdates:
		return IDCheckForUpdates
	case ActionToggleDevTools:
		return IDToggleDevTools
	default:
		return ""
	}
}

func (a Action) String() string {
	if id := a.ID(); id != "" {
		return id
	}
	return "unknown"
}
