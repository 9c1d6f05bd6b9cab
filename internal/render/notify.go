package render

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Notifier alerts the operator. It always rings the terminal bell and, when
// desktop notifications are enabled, also raises an OS notification.
type Notifier struct {
	term    *Terminal
	desktop bool
	// sendOS is swapped out in tests.
	sendOS func(title, message string) error
}

// NewNotifier creates a Notifier ringing the bell on t.
func NewNotifier(t *Terminal, desktop bool) *Notifier {
	return &Notifier{term: t, desktop: desktop, sendOS: notifyOS}
}

// Notify rings the bell and, if enabled, sends a desktop notification.
func (n *Notifier) Notify(title, message string) error {
	n.term.RingBell()
	if !n.desktop {
		return nil
	}
	return n.sendOS(title, message)
}

// notifyOS sends a notification with osascript on macOS or notify-send on
// Linux. Other platforms, or a missing notify-send, are a no-op.
func notifyOS(title, message string) error {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		return exec.Command("osascript", "-e", script).Run()
	case "linux":
		path, err := exec.LookPath("notify-send")
		if err != nil {
			return nil
		}
		return exec.Command(path, title, message).Run()
	default:
		return nil
	}
}
