package logger

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Spinner represents an animated spinner for long-running operations
type Spinner struct {
	mu       sync.Mutex
	active   bool
	message  string
	frames   []string
	interval time.Duration
	stopChan chan struct{}
	done     chan struct{}
}

// Default spinner frames
var (
	SpinnerDots = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	SpinnerLine = []string{"-", "\\", "|", "/"}
)

// NewSpinner creates a new spinner, falling back to ASCII frames without color
func NewSpinner(message string) *Spinner {
	if _, color := output(); !color {
		return NewSpinnerWithFrames(message, SpinnerLine)
	}
	return NewSpinnerWithFrames(message, SpinnerDots)
}

// NewSpinnerWithFrames creates a new spinner with custom frames
func NewSpinnerWithFrames(message string, frames []string) *Spinner {
	return &Spinner{
		message:  message,
		frames:   frames,
		interval: 100 * time.Millisecond,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start starts the spinner animation
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			w, color := output()
			frame := s.frames[i%len(s.frames)]
			if color {
				fmt.Fprintf(w, "\r%s%s%s %s", colorCyan, frame, colorReset, s.message)
			} else {
				fmt.Fprintf(w, "\r%s %s", frame, s.message)
			}

			select {
			case <-s.stopChan:
				// Clear the line
				fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", len(s.message)+10))
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop stops the spinner and optionally displays a final message
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	close(s.stopChan)
	s.mu.Unlock()

	<-s.done
}

// Success stops the spinner and shows a success message
func (s *Spinner) Success(message string) {
	s.Stop()
	Success(message)
}

// Error stops the spinner and shows an error message
func (s *Spinner) Error(message string) {
	s.Stop()
	Error(message)
}

// WithSpinner runs a function with a spinner
func WithSpinner(message string, fn func() error) error {
	spinner := NewSpinner(message)
	spinner.Start()

	err := fn()

	if err != nil {
		spinner.Error(fmt.Sprintf("%s failed: %v", message, err))
	} else {
		spinner.Success(fmt.Sprintf("%s completed", message))
	}

	return err
}

// ProgressBar represents a simple progress bar
type ProgressBar struct {
	total   int
	current int
	width   int
	message string
}

// NewProgressBar creates a new progress bar
func NewProgressBar(total int, message string) *ProgressBar {
	return &ProgressBar{
		total:   total,
		current: 0,
		width:   40,
		message: message,
	}
}

// Update updates the progress bar
func (p *ProgressBar) Update(current int) {
	p.current = current
	p.draw()
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	p.current = p.total
	p.draw()
	w, _ := output()
	fmt.Fprintln(w)
}

func (p *ProgressBar) draw() {
	if p.total <= 0 {
		return
	}
	percent := float64(p.current) / float64(p.total)
	filled := int(percent * float64(p.width))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)

	w, color := output()
	if color {
		fmt.Fprintf(w, "\r%s: %s%s%s %3.0f%% (%d/%d)",
			p.message,
			colorGreen, bar, colorReset,
			percent*100, p.current, p.total)
	} else {
		fmt.Fprintf(w, "\r%s: [%s] %3.0f%% (%d/%d)",
			p.message,
			bar,
			percent*100, p.current, p.total)
	}
}
