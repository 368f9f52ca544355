package service

import (
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// ProgressManager tracks long-running compile tasks on stderr. Bars
// are only drawn in interactive terminals.
type ProgressManager struct {
	mu          sync.Mutex
	writer      io.Writer
	interactive bool
	bars        map[string]*progressbar.ProgressBar
}

// NewProgressManager creates a progress manager
func NewProgressManager() *ProgressManager {
	return &ProgressManager{
		writer:      os.Stderr,
		interactive: isInteractiveEnvironment(),
		bars:        make(map[string]*progressbar.ProgressBar),
	}
}

// Start begins tracking a task with the given number of steps
func (pm *ProgressManager) Start(name string, total int) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if !pm.interactive {
		return
	}
	pm.bars[name] = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(pm.writer),
		progressbar.OptionSetDescription(name),
		progressbar.OptionClearOnFinish(),
	)
}

// Step advances a task by one step
func (pm *ProgressManager) Step(name string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if bar, ok := pm.bars[name]; ok {
		_ = bar.Add(1)
	}
}

// Finish completes and clears a task
func (pm *ProgressManager) Finish(name string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if bar, ok := pm.bars[name]; ok {
		_ = bar.Finish()
		delete(pm.bars, name)
	}
}

// isInteractiveEnvironment reports whether stderr is a terminal
func isInteractiveEnvironment() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
