package nav

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"testing"
)

type recorder struct {
	total int
	calls []string
	cur   func() int
}

func (r *recorder) SlideCount() int { return r.total }
func (r *recorder) ShowSlide(active, prev int) {
	r.calls = append(r.calls, fmt.Sprintf("show %d prev %d", active, prev))
}
func (r *recorder) SetOverview(on bool) { r.calls = append(r.calls, fmt.Sprintf("overview %v", on)) }
func (r *recorder) CaptureAndStore(i int) {
	r.calls = append(r.calls, fmt.Sprintf("capture %d (current %d)", i, r.cur()))
}
func (r *recorder) Restore(i int)      { r.calls = append(r.calls, fmt.Sprintf("restore %d", i)) }
func (r *recorder) WriteCurrent(i int) { r.calls = append(r.calls, fmt.Sprintf("url %d", i)) }

func newTestController(t *testing.T, total int) (*Controller, *recorder) {
	t.Helper()
	idx, err := NewSlideIndex(total)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	rec := &recorder{total: total, cur: idx.Current}
	return NewController(idx, rec, rec, rec), rec
}

func TestNewSlideIndex_RejectsEmptyDeck(t *testing.T) {
	for _, total := range []int{0, -1} {
		_, err := NewSlideIndex(total)
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("total=%d: expected ConfigError, got %v", total, err)
		}
		if ce.Total != total {
			t.Fatalf("expected Total=%d, got %d", total, ce.Total)
		}
	}
}

func TestController_NextWrapsAtLastSlide(t *testing.T) {
	c, _ := newTestController(t, 5)
	c.Goto(4)
	c.Next()
	if got := c.Current(); got != 0 {
		t.Fatalf("expected wrap to 0, got %d", got)
	}
}

func TestController_PrevClampsAtFirstSlide(t *testing.T) {
	c, rec := newTestController(t, 5)
	c.Prev()
	if got := c.Current(); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if len(rec.calls) != 0 {
		t.Fatalf("expected no side effects for a no-op prev, got %v", rec.calls)
	}
}

func TestController_GotoClamps(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: -3, want: 0},
		{in: 100, want: 4},
		{in: 2, want: 2},
	}
	for _, tt := range tests {
		c, _ := newTestController(t, 5)
		c.Goto(tt.in)
		if got := c.Current(); got != tt.want {
			t.Fatalf("goto(%d): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestController_MoveOrdering(t *testing.T) {
	c, rec := newTestController(t, 5)
	c.Next()
	want := []string{
		"capture 0 (current 0)",
		"restore 1",
		"show 1 prev 0",
		"url 1",
	}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Fatalf("unexpected call order:\n got %v\nwant %v", rec.calls, want)
	}
}

func TestController_IndexStaysInRange(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for total := 1; total <= 6; total++ {
		c, _ := newTestController(t, total)
		for i := 0; i < 500; i++ {
			switch r.Intn(4) {
			case 0:
				c.Next()
			case 1:
				c.Prev()
			case 2:
				c.Goto(r.Intn(40) - 20)
			case 3:
				c.GotoLast()
			}
			if cur := c.Current(); cur < 0 || cur >= total {
				t.Fatalf("total=%d: current %d out of range", total, cur)
			}
		}
	}
}

func TestController_SelectFromOverview(t *testing.T) {
	c, rec := newTestController(t, 5)
	if c.SelectFromOverview(3) {
		t.Fatalf("expected click outside overview to be ignored")
	}
	c.ToggleOverview()
	if !c.Overview() {
		t.Fatalf("expected overview on")
	}
	rec.calls = nil
	if !c.SelectFromOverview(3) {
		t.Fatalf("expected click to be consumed")
	}
	if c.Overview() {
		t.Fatalf("expected overview off after selection")
	}
	if c.Current() != 3 {
		t.Fatalf("expected slide 3, got %d", c.Current())
	}
	if rec.calls[0] != "overview false" {
		t.Fatalf("expected overview to close first, got %v", rec.calls)
	}
}

func TestController_StartRendersWithoutCapture(t *testing.T) {
	c, rec := newTestController(t, 3)
	c.Start(9)
	want := []string{"restore 2", "show 2 prev 1", "url 2"}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Fatalf("got %v want %v", rec.calls, want)
	}
}
