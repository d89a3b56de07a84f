package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/floorplan/pkg/floorplan"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a one-line status on stderr while a search runs. The
// status after the label is replaced on every temperature stage.
type Spinner struct {
	label string
	out   io.Writer

	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once

	mu     sync.Mutex
	status string
	width  int // widest line drawn so far, for clearing
}

// newSpinnerWithContext creates a spinner that stops drawing when ctx ends.
func newSpinnerWithContext(ctx context.Context, label string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		label:   label,
		out:     os.Stderr,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// SetStage shows the progress of the latest temperature stage.
func (s *Spinner) SetStage(st floorplan.Stage) {
	s.mu.Lock()
	s.status = stageStatus(st)
	s.mu.Unlock()
}

func stageStatus(st floorplan.Stage) string {
	return fmt.Sprintf("stage %d · T %.3g · best %.6g", st.Index+1, st.Temperature, st.BestCost)
}

func (s *Spinner) line() string {
	if s.status == "" {
		return s.label
	}
	return s.label + "  " + s.status
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.line()
	if n := len(text) + 2; n > s.width {
		s.width = n
	}
	fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(text))
}

// Stop ends the animation and clears the line. Calling it again is a no-op.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.width > 0 {
			fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width))
		}
	})
}

// StopWithError stops the spinner and reports a failure.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}
