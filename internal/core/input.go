package core

// Action is a semantic user intent, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // K, Up arrow - previous field or option
	ActionDown           // J, Down arrow - next field or option
	ActionLeft           // H, Left arrow - previous value
	ActionRight          // L, Right arrow - next value
	ActionSelect         // 1-9, 0 - pick an option directly
	ActionConfirm        // Enter - confirm selection
	ActionBack           // Escape - back to settings
	ActionRetry          // R - retry a failed round load, new game after game over
	ActionScores         // S - open the scoreboard
	ActionQuit           // Q, Ctrl+C - exit
)

// Input is one decoded key press. Option is the zero-based option index
// for ActionSelect and -1 otherwise.
type Input struct {
	Action Action
	Option int
}

// OptionKey maps the digit keys to option indexes: '1'..'9' are 0..8 and
// '0' is 9.
func OptionKey(r rune) (int, bool) {
	switch {
	case r >= '1' && r <= '9':
		return int(r - '1'), true
	case r == '0':
		return 9, true
	}
	return -1, false
}

// OptionLabel is the inverse of OptionKey.
func OptionLabel(index int) string {
	switch {
	case index >= 0 && index < 9:
		return string(rune('1' + index))
	case index == 9:
		return "0"
	}
	return " "
}
