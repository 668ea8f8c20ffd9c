package internal

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// UIManager handles interactive feedback on stderr
type UIManager interface {
	NewSpinner(description string) ProgressBar
}

// ProgressBar is a running spinner
type ProgressBar interface {
	Finish()
}

// StandardUIManager shows spinners on an interactive stderr
type StandardUIManager struct {
	enabled bool
}

func NewUIManager(verbose, quiet bool) UIManager {
	return &StandardUIManager{enabled: SpinnerEnabled(verbose, quiet)}
}

// SpinnerEnabled reports whether spinners are shown: only on an interactive
// stderr, and never in verbose or quiet mode.
func SpinnerEnabled(verbose, quiet bool) bool {
	return IsInteractive() && !verbose && !quiet
}

// IsInteractive reports whether stderr is a terminal
func IsInteractive() bool {
	return isTerminal(os.Stderr)
}

// StdoutIsTerminal reports whether rendered output would reach a terminal
func StdoutIsTerminal() bool {
	return isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (ui *StandardUIManager) NewSpinner(description string) ProgressBar {
	if !ui.enabled {
		return &SilentProgressBar{bar: progressbar.DefaultSilent(-1)}
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	_ = bar.RenderBlank()
	Stderr.attach(bar)
	return &VisibleProgressBar{bar: bar, out: Stderr}
}

// VisibleProgressBar wraps the actual progress bar
type VisibleProgressBar struct {
	bar *progressbar.ProgressBar
	out *TerminalWriter
}

func (v *VisibleProgressBar) Finish() {
	v.out.detach(v.bar)
	_ = v.bar.Finish()
}

// SilentProgressBar implements a silent progress bar
type SilentProgressBar struct {
	bar *progressbar.ProgressBar
}

func (s *SilentProgressBar) Finish() {
	_ = s.bar.Finish()
}

// Stderr is where diagnostics go. Log records written through it erase the
// spinner line first and redraw the spinner afterwards.
var Stderr = NewTerminalWriter(os.Stderr)

// TerminalWriter shares one terminal between log records and a spinner.
type TerminalWriter struct {
	mu  sync.Mutex
	out io.Writer
	bar *progressbar.ProgressBar
}

func NewTerminalWriter(out io.Writer) *TerminalWriter {
	return &TerminalWriter{out: out}
}

func (w *TerminalWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.bar == nil {
		return w.out.Write(p)
	}
	if _, err := io.WriteString(w.out, "\r\x1b[K"); err != nil {
		return 0, err
	}
	n, err := w.out.Write(p)
	_ = w.bar.RenderBlank()
	return n, err
}

func (w *TerminalWriter) attach(bar *progressbar.ProgressBar) {
	w.mu.Lock()
	w.bar = bar
	w.mu.Unlock()
}

func (w *TerminalWriter) detach(bar *progressbar.ProgressBar) {
	w.mu.Lock()
	if w.bar == bar {
		w.bar = nil
	}
	w.mu.Unlock()
}
