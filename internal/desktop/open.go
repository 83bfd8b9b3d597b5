// Package desktop hands photographs and their URIs to the desktop session:
// an image viewer for display and the system clipboard for pasting.
package desktop

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// ErrUnsupportedPlatform is returned when no opener is known for the OS.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// DefaultViewer hands the file to the platform's default application.
const DefaultViewer = "system"

// Viewers lists the accepted viewer names.
var Viewers = []string{DefaultViewer, "preview", "feh", "eog", "gwenview"}

// Opener opens image files in a viewer.
type Opener struct {
	viewer string
	goos   string
	start  func(*exec.Cmd) error
}

// NewOpener returns an opener for viewer ("" means DefaultViewer).
func NewOpener(viewer string) *Opener {
	if viewer == "" {
		viewer = DefaultViewer
	}
	return &Opener{
		viewer: viewer,
		goos:   runtime.GOOS,
		start:  (*exec.Cmd).Start,
	}
}

// Open starts the viewer on path without waiting for it to exit.
func (o *Opener) Open(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("photograph does not exist: %s", path)
		}
		return fmt.Errorf("checking photograph: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a file: %s", path)
	}

	name, args, err := viewerCommand(o.goos, o.viewer, path)
	if err != nil {
		return err
	}
	if err := o.start(exec.Command(name, args...)); err != nil {
		return fmt.Errorf("starting %s: %w", name, err)
	}
	return nil
}

// viewerCommand returns the program and arguments that show path.
func viewerCommand(goos, viewer, path string) (string, []string, error) {
	switch goos {
	case "darwin":
		switch viewer {
		case "preview":
			return "open", []string{"-a", "Preview", path}, nil
		case DefaultViewer:
			return "open", []string{path}, nil
		}
	case "linux":
		switch viewer {
		case "feh", "eog", "gwenview":
			return viewer, []string{path}, nil
		case DefaultViewer:
			return "xdg-open", []string{path}, nil
		}
	default:
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
	return "", nil, fmt.Errorf("viewer %q is not available on %s", viewer, goos)
}
