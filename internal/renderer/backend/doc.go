// Package backend draws character cells and delivers input events.
//
// Terminal is the tcell-backed implementation. Tests construct it over a
// tcell simulation screen with NewTerminalWithScreen.
package backend
