package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// settledMsg tells the model that a delayed render has run.
type settledMsg struct{}

// Scheduler runs the editor's delayed renders on timers and wakes the
// program after each one, so settle renders reach the screen. Pass its
// AfterFunc as editor.Options.AfterFunc and the Scheduler itself in Options.
type Scheduler struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// AfterFunc runs f after d and then asks the bound program to repaint.
func (s *Scheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, func() {
		f()
		s.mu.Lock()
		send := s.send
		s.mu.Unlock()
		if send != nil {
			send(settledMsg{})
		}
	})
}

// bind routes repaint requests to send until the returned func is called.
func (s *Scheduler) bind(send func(tea.Msg)) (unbind func()) {
	s.mu.Lock()
	s.send = send
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.send = nil
		s.mu.Unlock()
	}
}
