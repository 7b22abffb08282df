package keys

import (
	"strconv"
	"strings"
	"time"
)

// DefaultQuietPeriod bounds how long a multi-key sequence such as "3gg" may take.
const DefaultQuietPeriod = 800 * time.Millisecond

// Event is one key press as seen by the interpreter.
type Event struct {
	Key string
	// InTextField is set when focus is inside a text entry; such events are ignored.
	InTextField bool
}

// Target receives resolved commands.
type Target interface {
	Next()
	Prev()
	Goto(n int)
	GotoLast()
	ToggleTheme()
	ToggleFullscreen()
	ToggleOverview()
	SelectPen()
	SelectEraser()
	ClearInk()
}

// Action names what a key resolved to.
type Action string

const (
	ActionNone       Action = ""
	ActionIgnored    Action = "ignored"
	ActionBuffered   Action = "buffered"
	ActionPrefix     Action = "prefix"
	ActionGoto       Action = "goto"
	ActionGotoLast   Action = "goto-last"
	ActionNext       Action = "next"
	ActionPrev       Action = "prev"
	ActionTheme      Action = "theme"
	ActionFullscreen Action = "fullscreen"
	ActionOverview   Action = "overview"
	ActionPen        Action = "pen"
	ActionEraser     Action = "eraser"
	ActionClearInk   Action = "clear-ink"
	ActionReset      Action = "reset"
)

// Interpreter turns key presses into commands using a vim-like grammar:
// digits buffer a count, "g" arms a prefix, "gg" / "<n>gg" jump, "ge" jumps to the end.
// The digit buffer and the prefix are always cleared together.
type Interpreter struct {
	target Target
	timer  Timer
	quiet  time.Duration

	digits      strings.Builder
	prefixArmed bool
}

func NewInterpreter(target Target, timer Timer, quiet time.Duration) *Interpreter {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Interpreter{target: target, timer: timer, quiet: quiet}
}

// Buffer returns the pending digits, for status displays.
func (in *Interpreter) Buffer() string { return in.digits.String() }

func (in *Interpreter) PrefixArmed() bool { return in.prefixArmed }

// Pending reports whether an incomplete sequence is buffered.
func (in *Interpreter) Pending() bool { return in.prefixArmed || in.digits.Len() > 0 }

func (in *Interpreter) HandleKey(ev Event) Action {
	if ev.InTextField {
		return ActionIgnored
	}
	key := Canonical(ev.Key)
	if key == "" || isModifier(key) {
		return ActionIgnored
	}
	in.rearm()

	if isDigit(key) {
		in.digits.WriteString(key)
		return ActionBuffered
	}

	switch key {
	case "g":
		if !in.prefixArmed {
			in.prefixArmed = true
			return ActionPrefix
		}
		target := 0
		if in.digits.Len() > 0 {
			if n, err := strconv.Atoi(in.digits.String()); err == nil {
				target = n
			} else {
				// Overflowing counts still mean "far away".
				target = int(^uint(0) >> 1)
			}
		}
		in.reset()
		in.target.Goto(target)
		return ActionGoto
	case "e":
		if in.prefixArmed {
			in.reset()
			in.target.GotoLast()
			return ActionGotoLast
		}
	}

	in.reset()
	switch key {
	case "h", "arrowleft":
		in.target.Prev()
		return ActionPrev
	case "l", "arrowright", "space":
		in.target.Next()
		return ActionNext
	case "t":
		in.target.ToggleTheme()
		return ActionTheme
	case "f":
		in.target.ToggleFullscreen()
		return ActionFullscreen
	case "-":
		in.target.ToggleOverview()
		return ActionOverview
	case "p":
		in.target.SelectPen()
		return ActionPen
	case "x":
		in.target.SelectEraser()
		return ActionEraser
	case "c":
		in.target.ClearInk()
		return ActionClearInk
	}
	return ActionReset
}

// Expire is the quiet-period reset. It is a no-op when nothing is pending.
func (in *Interpreter) Expire() {
	if !in.Pending() {
		return
	}
	in.reset()
}

func (in *Interpreter) rearm() {
	if in.timer == nil {
		return
	}
	in.timer.Cancel()
	in.timer.Schedule(in.quiet, in.Expire)
}

func (in *Interpreter) reset() {
	in.digits.Reset()
	in.prefixArmed = false
}

// Canonical lower-cases a key name and folds host spellings of the
// arrow and space keys onto one name each.
func Canonical(key string) string {
	if key == " " {
		return "space"
	}
	k := strings.ToLower(strings.TrimSpace(key))
	switch k {
	case "left", "arrowleft":
		return "arrowleft"
	case "right", "arrowright":
		return "arrowright"
	case "spacebar", "space":
		return "space"
	}
	return k
}

// isModifier reports keys that arrive alone while composing another key, such
// as Shift before G. They leave any pending sequence untouched.
func isModifier(k string) bool {
	switch k {
	case "shift", "control", "alt", "altgraph", "meta", "os", "capslock", "fn", "numlock":
		return true
	}
	return false
}

func isDigit(k string) bool {
	return len(k) == 1 && k[0] >= '0' && k[0] <= '9'
}
