package tui

type state int

const (
	timelineState state = iota
	libraryState
	confirmQuitState
	errorState
)
