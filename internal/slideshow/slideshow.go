package slideshow

import (
	"errors"
	"fmt"
)

// ErrSlideOutOfRange is returned by GoTo for an index outside [0, Count).
var ErrSlideOutOfRange = errors.New("slide index out of range")

// Slideshow is the position within a fixed number of slides. The server keeps
// no slideshow state; the current index travels in the request URL.
type Slideshow struct {
	Current int
	Count   int
}

// New returns a slideshow positioned at index, wrapped into range.
func New(count, index int) Slideshow {
	s := Slideshow{Count: max(count, 0)}
	if s.Count > 0 {
		s.Current = wrap(index, s.Count)
	}
	return s
}

// Next advances to the following slide, wrapping to the first.
func (s Slideshow) Next() Slideshow {
	if s.Count == 0 {
		return s
	}
	s.Current = wrap(s.Current+1, s.Count)
	return s
}

// Prev moves to the preceding slide, wrapping to the last.
func (s Slideshow) Prev() Slideshow {
	if s.Count == 0 {
		return s
	}
	s.Current = wrap(s.Current-1, s.Count)
	return s
}

// GoTo jumps to index i.
func (s Slideshow) GoTo(i int) (Slideshow, error) {
	if i < 0 || i >= s.Count {
		return s, fmt.Errorf("slide %d of %d: %w", i, s.Count, ErrSlideOutOfRange)
	}
	s.Current = i
	return s, nil
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
