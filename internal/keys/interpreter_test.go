package keys

import (
	"reflect"
	"strconv"
	"sync"
	"testing"
	"time"
)

type fakeTimer struct {
	now      time.Duration
	deadline time.Duration
	fire     func()
}

func (f *fakeTimer) Schedule(d time.Duration, fire func()) {
	f.deadline = f.now + d
	f.fire = fire
}

func (f *fakeTimer) Cancel() { f.fire = nil }

func (f *fakeTimer) advance(d time.Duration) {
	f.now += d
	if f.fire != nil && f.now >= f.deadline {
		fn := f.fire
		f.fire = nil
		fn()
	}
}

type spyTarget struct {
	total int
	calls []string
}

func (s *spyTarget) Next()             { s.calls = append(s.calls, "next") }
func (s *spyTarget) Prev()             { s.calls = append(s.calls, "prev") }
func (s *spyTarget) Goto(n int)        { s.calls = append(s.calls, "goto "+strconv.Itoa(n)) }
func (s *spyTarget) GotoLast()         { s.Goto(s.total - 1) }
func (s *spyTarget) ToggleTheme()      { s.calls = append(s.calls, "theme") }
func (s *spyTarget) ToggleFullscreen() { s.calls = append(s.calls, "fullscreen") }
func (s *spyTarget) ToggleOverview()   { s.calls = append(s.calls, "overview") }
func (s *spyTarget) SelectPen()        { s.calls = append(s.calls, "pen") }
func (s *spyTarget) SelectEraser()     { s.calls = append(s.calls, "eraser") }
func (s *spyTarget) ClearInk()         { s.calls = append(s.calls, "clear") }

func newTestInterpreter() (*Interpreter, *spyTarget, *fakeTimer) {
	tgt := &spyTarget{total: 5}
	tm := &fakeTimer{}
	return NewInterpreter(tgt, tm, DefaultQuietPeriod), tgt, tm
}

func press(in *Interpreter, keys ...string) {
	for _, k := range keys {
		in.HandleKey(Event{Key: k})
	}
}

func TestInterpreter_Sequences(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want []string
	}{
		{name: "count gg", keys: []string{"3", "g", "g"}, want: []string{"goto 3"}},
		{name: "multi digit count", keys: []string{"1", "2", "g", "g"}, want: []string{"goto 12"}},
		{name: "bare gg", keys: []string{"g", "g"}, want: []string{"goto 0"}},
		{name: "ge", keys: []string{"g", "e"}, want: []string{"goto 4"}},
		{name: "digits before ge are discarded", keys: []string{"3", "g", "e"}, want: []string{"goto 4"}},
		{name: "digit between g and g", keys: []string{"g", "2", "g"}, want: []string{"goto 2"}},
		{name: "e alone is not special", keys: []string{"e"}, want: nil},
		{name: "arrows and vim keys", keys: []string{"l", "ArrowRight", " ", "h", "ArrowLeft"}, want: []string{"next", "next", "next", "prev", "prev"}},
		{name: "upper case folds", keys: []string{"G", "G"}, want: []string{"goto 0"}},
		{name: "toggles", keys: []string{"t", "f", "-"}, want: []string{"theme", "fullscreen", "overview"}},
		{name: "tools", keys: []string{"p", "x", "c"}, want: []string{"pen", "eraser", "clear"}},
		{name: "nav key cancels prefix", keys: []string{"g", "l", "g"}, want: []string{"next"}},
		{name: "other key clears buffer", keys: []string{"3", "z", "g", "g"}, want: []string{"goto 0"}},
		{name: "shift keeps count", keys: []string{"3", "Shift", "G", "Shift", "G"}, want: []string{"goto 3"}},
		{name: "modifiers keep prefix", keys: []string{"g", "Control", "Alt", "Meta", "CapsLock", "e"}, want: []string{"goto 4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, tgt, _ := newTestInterpreter()
			press(in, tt.keys...)
			if !reflect.DeepEqual(tgt.calls, tt.want) {
				t.Fatalf("got %v want %v", tgt.calls, tt.want)
			}
		})
	}
}

func TestInterpreter_QuietPeriodDiscardsBuffer(t *testing.T) {
	in, tgt, tm := newTestInterpreter()
	press(in, "3")
	tm.advance(DefaultQuietPeriod + time.Millisecond)
	if in.Pending() {
		t.Fatalf("expected buffer cleared by timeout")
	}
	press(in, "g", "g")
	if want := []string{"goto 0"}; !reflect.DeepEqual(tgt.calls, want) {
		t.Fatalf("got %v want %v", tgt.calls, want)
	}
}

func TestInterpreter_KeyReschedulesReset(t *testing.T) {
	in, tgt, tm := newTestInterpreter()
	press(in, "3")
	tm.advance(DefaultQuietPeriod - 100*time.Millisecond)
	press(in, "g")
	tm.advance(DefaultQuietPeriod - 100*time.Millisecond)
	press(in, "g")
	if want := []string{"goto 3"}; !reflect.DeepEqual(tgt.calls, want) {
		t.Fatalf("got %v want %v", tgt.calls, want)
	}
}

func TestInterpreter_ResetClearsPrefixAndBufferTogether(t *testing.T) {
	in, _, tm := newTestInterpreter()
	press(in, "4", "g")
	if !in.PrefixArmed() || in.Buffer() != "4" {
		t.Fatalf("expected armed prefix with buffer 4, got armed=%v buf=%q", in.PrefixArmed(), in.Buffer())
	}
	tm.advance(time.Second)
	if in.PrefixArmed() || in.Buffer() != "" {
		t.Fatalf("expected both cleared, got armed=%v buf=%q", in.PrefixArmed(), in.Buffer())
	}
	// A reset on an empty buffer is a no-op.
	in.Expire()
}

func TestInterpreter_IgnoresTextFieldFocus(t *testing.T) {
	in, tgt, tm := newTestInterpreter()
	if got := in.HandleKey(Event{Key: "l", InTextField: true}); got != ActionIgnored {
		t.Fatalf("expected ignored, got %q", got)
	}
	if len(tgt.calls) != 0 || tm.fire != nil {
		t.Fatalf("expected no effects, got calls=%v timer armed=%v", tgt.calls, tm.fire != nil)
	}
}

func TestInterpreter_ModifierKeysAreIgnored(t *testing.T) {
	in, _, tm := newTestInterpreter()
	if got := in.HandleKey(Event{Key: "Shift"}); got != ActionIgnored {
		t.Fatalf("expected ignored, got %q", got)
	}
	if tm.fire != nil {
		t.Fatalf("expected modifier not to arm the quiet timer")
	}
}

func TestCanonical(t *testing.T) {
	cases := map[string]string{
		" ":         "space",
		"Spacebar":  "space",
		"ArrowLeft": "arrowleft",
		"left":      "arrowleft",
		"RIGHT":     "arrowright",
		"G":         "g",
		"-":         "-",
		"":          "",
	}
	for in, want := range cases {
		if got := Canonical(in); got != want {
			t.Fatalf("Canonical(%q)=%q want %q", in, got, want)
		}
	}
}

func TestDispatchTimer_CancelDropsQueuedFiring(t *testing.T) {
	var mu sync.Mutex
	var queued []func()
	dispatch := func(fn func()) {
		mu.Lock()
		queued = append(queued, fn)
		mu.Unlock()
	}
	tm := NewDispatchTimer(dispatch)

	fired := 0
	tm.Schedule(time.Millisecond, func() { fired++ })
	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(queued)
		mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Millisecond)
	}
	tm.Cancel()

	mu.Lock()
	pending := queued
	mu.Unlock()
	if len(pending) != 1 {
		t.Fatalf("expected one queued firing, got %d", len(pending))
	}
	pending[0]()
	if fired != 0 {
		t.Fatalf("expected cancelled firing to be dropped")
	}
}

func TestDispatchTimer_FiresOnLoop(t *testing.T) {
	loop := make(chan func(), 1)
	tm := NewDispatchTimer(func(fn func()) { loop <- fn })
	fired := false
	tm.Schedule(time.Millisecond, func() { fired = true })
	select {
	case fn := <-loop:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatalf("timer never dispatched")
	}
	if !fired {
		t.Fatalf("expected firing")
	}
}
