package formatter

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// Spinner draws a one-line wait indicator with elapsed seconds. It is used
// outside bubbletea programs, so it drives the bubbles frames itself and
// writes to its own stream to keep stdout parseable.
type Spinner struct {
	out     io.Writer
	frames  spinner.Spinner
	label   string
	started atomic.Bool
	once    sync.Once
	stop    chan struct{}
	done    chan struct{}
}

func NewSpinner(out io.Writer, label string) *Spinner {
	return &Spinner{
		out:    out,
		frames: spinner.Dot,
		label:  label,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (s *Spinner) Start() {
	if s.started.Swap(true) {
		return
	}
	go s.run(time.Now())
}

func (s *Spinner) run(began time.Time) {
	defer close(s.done)
	tick := time.NewTicker(s.frames.FPS)
	defer tick.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.stop:
			fmt.Fprint(s.out, "\r\033[K")
			return
		case <-tick.C:
			frame := s.frames.Frames[i%len(s.frames.Frames)]
			elapsed := int(time.Since(began).Seconds())
			fmt.Fprintf(s.out, "\r  %s %s %s", StylePurple.Render(frame), Dim(s.label), Dim(fmt.Sprintf("%ds", elapsed)))
		}
	}
}

// Stop clears the line. Calling it twice, or before Start, is a no-op.
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.stop) })
	if s.started.Load() {
		<-s.done
	}
}

func StartSpinner(out io.Writer, label string) func() {
	s := NewSpinner(out, label)
	s.Start()
	return s.Stop
}
