package nav

import "fmt"

// ConfigError reports a presentation that cannot be initialised.
type ConfigError struct {
	Total int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("nav: presentation needs at least one slide (got %d)", e.Total)
}

// SlideIndex holds the slide count and the current position.
// current always satisfies 0 <= current < total.
type SlideIndex struct {
	total   int
	current int
}

func NewSlideIndex(total int) (*SlideIndex, error) {
	if total < 1 {
		return nil, &ConfigError{Total: total}
	}
	return &SlideIndex{total: total}, nil
}

func (s *SlideIndex) Total() int   { return s.total }
func (s *SlideIndex) Current() int { return s.current }
func (s *SlideIndex) Last() int    { return s.total - 1 }

// Clamp bounds n to [0, total-1].
func (s *SlideIndex) Clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > s.total-1 {
		return s.total - 1
	}
	return n
}

func (s *SlideIndex) set(n int) {
	s.current = s.Clamp(n)
}
