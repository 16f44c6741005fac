// Package viewer hands extracted images to an external program.
package viewer

import (
	"os"
	"os/exec"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Launcher starts the configured viewer command on image files. Launches are
// fire-and-forget: failures are logged, never returned.
//
// Many viewers (xdg-open, open) return before the image is displayed, so
// files are kept until Close rather than removed when the command exits.
type Launcher struct {
	// Command is split on whitespace; the image path is appended.
	Command string
	Log     *zap.Logger

	wg    sync.WaitGroup
	mu    sync.Mutex
	files []string
}

// New returns a Launcher for command.
func New(command string, log *zap.Logger) *Launcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Launcher{Command: command, Log: log}
}

// Open runs the viewer on path in the background. The Launcher takes
// ownership of path.
func (l *Launcher) Open(path string) {
	l.mu.Lock()
	l.files = append(l.files, path)
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		args := strings.Fields(l.Command)
		if len(args) == 0 {
			l.Log.Warn("No image viewer configured", zap.String("file", path))
			return
		}

		cmd := exec.Command(args[0], append(args[1:], path)...)
		if err := cmd.Run(); err != nil {
			l.Log.Warn("Image viewer failed", zap.String("command", l.Command), zap.String("file", path), zap.Error(err))
			return
		}
		l.Log.Debug("Image viewer exited", zap.String("file", path))
	}()
}

// Wait blocks until every launched viewer command has exited.
func (l *Launcher) Wait() {
	l.wg.Wait()
}

// Close removes every file handed to Open. It does not wait for viewers.
func (l *Launcher) Close() {
	l.mu.Lock()
	files := l.files
	l.files = nil
	l.mu.Unlock()

	for _, f := range files {
		if err := os.Remove(f); err != nil {
			l.Log.Debug("Unable to remove image", zap.String("file", f), zap.Error(err))
		}
	}
}
