package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line on w while a pipeline stage runs, with the
// elapsed time after the label. It stops on its own when the parent context
// is done.
type spinner struct {
	w     io.Writer
	label string
	start time.Time

	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	mu      sync.Mutex
	width   int
}

func startSpinner(parent context.Context, w io.Writer, label string) *spinner {
	ctx, cancel := context.WithCancel(parent)
	s := &spinner{
		w:       w,
		label:   label,
		start:   time.Now(),
		parent:  parent,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *spinner) loop() {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-ticker.C:
			elapsed := time.Since(s.start).Round(100 * time.Millisecond)
			line := fmt.Sprintf("%s %s", s.label, StyleDim.Render("("+elapsed.String()+")"))
			s.mu.Lock()
			s.width = max(s.width, len(line)+2)
			fmt.Fprintf(s.w, "\r%s %s", styleSpinner.Render(spinnerFrames[i%len(spinnerFrames)]), line)
			s.mu.Unlock()
		}
	}
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		s.width = 0
	}
}

// stop ends the animation and blanks the line. It may be called more than
// once.
func (s *spinner) stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
	})
}

// interrupted reports whether the parent context ended the spinner.
func (s *spinner) interrupted() bool {
	return s.parent.Err() != nil
}

// runStage runs fn behind a spinner labelled label and prints a failure
// line on w when fn fails. A stage that finishes after ctx was cancelled
// reports the cancellation instead of its result.
func runStage(ctx context.Context, w io.Writer, label string, fn func() error) error {
	s := startSpinner(ctx, w, label)
	err := fn()
	s.stop()
	if err == nil && s.interrupted() {
		err = ctx.Err()
	}
	if err != nil {
		fmt.Fprintln(w, styleFailed.Render(markFailed)+" "+label+" failed")
	}
	return err
}
