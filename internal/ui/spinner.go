package ui

import (
	"fmt"
	"os"
	"sync"
	"time"
)

var spinnerFrames = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

// Spinner displays an animated progress indicator on stderr. Output goes to
// stderr so JSON results on stdout stay pipeable.
type Spinner struct {
	mu   sync.Mutex
	msg  string
	done chan struct{}
}

func New() *Spinner {
	return &Spinner{}
}

// Start begins the animation with the given message.
func (s *Spinner) Start(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()
	go s.run(done)
}

// Update changes the message while the spinner is running. It is safe to
// use as a platform progress callback from multiple goroutines.
func (s *Spinner) Update(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	s.mu.Unlock()
	fmt.Fprint(os.Stderr, "\r\033[K")
}

func (s *Spinner) run(done <-chan struct{}) {
	tick := time.NewTicker(80 * time.Millisecond)
	defer tick.Stop()

	for i := 0; ; i++ {
		select {
		case <-done:
			return
		case <-tick.C:
			s.mu.Lock()
			msg := s.msg
			s.mu.Unlock()
			fmt.Fprintf(os.Stderr, "\r\033[K%c %s", spinnerFrames[i%len(spinnerFrames)], msg)
		}
	}
}
