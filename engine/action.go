package engine

import "fmt"

// Action is a discrete transport command from the presentation layer
type Action uint8

const (
	ActionNone Action = iota
	ActionPause
	ActionResume
	ActionTogglePause
	ActionFaster
	ActionSlower
	ActionRestart
	ActionQuit
)

var actionNames = [...]string{
	ActionNone:        "none",
	ActionPause:       "pause",
	ActionResume:      "resume",
	ActionTogglePause: "toggle",
	ActionFaster:      "faster",
	ActionSlower:      "slower",
	ActionRestart:     "restart",
	ActionQuit:        "quit",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// Apply performs a on the controller; returns false when a asks to stop
func (c *Controller) Apply(a Action) bool {
	switch a {
	case ActionPause:
		c.Pause()
	case ActionResume:
		c.Resume()
	case ActionTogglePause:
		c.TogglePause()
	case ActionFaster:
		c.IncreaseRate()
	case ActionSlower:
		c.DecreaseRate()
	case ActionRestart:
		c.Restart()
	case ActionQuit:
		return false
	}
	return true
}
