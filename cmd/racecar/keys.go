package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/racecar/engine"
)

// keyBindings maps special keys to transport actions
var keyBindings = map[tcell.Key]engine.Action{
	tcell.KeyUp:     engine.ActionFaster,
	tcell.KeyRight:  engine.ActionFaster,
	tcell.KeyDown:   engine.ActionSlower,
	tcell.KeyLeft:   engine.ActionSlower,
	tcell.KeyEscape: engine.ActionQuit,
	tcell.KeyCtrlC:  engine.ActionQuit,
	tcell.KeyCtrlQ:  engine.ActionQuit,
}

// runeBindings maps printable keys to transport actions
var runeBindings = map[rune]engine.Action{
	' ': engine.ActionTogglePause,
	'p': engine.ActionPause,
	'c': engine.ActionResume,
	'+': engine.ActionFaster,
	'=': engine.ActionFaster,
	'-': engine.ActionSlower,
	'_': engine.ActionSlower,
	'r': engine.ActionRestart,
	'q': engine.ActionQuit,
}

// keyAction returns the action bound to ev, ActionNone when unbound
func keyAction(ev *tcell.EventKey) engine.Action {
	if ev.Key() == tcell.KeyRune {
		if a, ok := runeBindings[ev.Rune()]; ok {
			return a
		}
		return engine.ActionNone
	}
	if a, ok := keyBindings[ev.Key()]; ok {
		return a
	}
	return engine.ActionNone
}
