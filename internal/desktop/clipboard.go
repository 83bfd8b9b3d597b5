package desktop

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

// ErrClipboardUnavailable is returned when clipboard access is not available.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// lookPath is swapped out in tests.
var lookPath = exec.LookPath

// clipboardCommand returns the program and arguments that read stdin into
// the clipboard on goos.
func clipboardCommand(goos string) (string, []string, error) {
	switch goos {
	case "darwin":
		if _, err := lookPath("pbcopy"); err == nil {
			return "pbcopy", nil, nil
		}
	case "linux":
		// Try xclip first, fall back to xsel
		if _, err := lookPath("xclip"); err == nil {
			return "xclip", []string{"-selection", "clipboard"}, nil
		}
		if _, err := lookPath("xsel"); err == nil {
			return "xsel", []string{"--clipboard", "--input"}, nil
		}
	}
	return "", nil, ErrClipboardUnavailable
}

// ClipboardAvailable reports whether Copy can work on this system.
func ClipboardAvailable() bool {
	_, _, err := clipboardCommand(runtime.GOOS)
	return err == nil
}

// Copy copies text to the system clipboard.
func Copy(text string) error {
	name, args, err := clipboardCommand(runtime.GOOS)
	if err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}
