package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// OSNotifier dispatches alerts through the host's native notification
// mechanism: notify-send on linux, osascript on darwin, a PowerShell
// message box on windows.
type OSNotifier struct{}

// Dispatch shows a system notification. The spawned command is not
// waited on; a failure to start is the delivery error.
func (OSNotifier) Dispatch(_ context.Context, title, body string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "windows":
		cmd = "powershell"
		script := fmt.Sprintf(`[reflection.assembly]::loadwithpartialname("System.Windows.Forms"); [system.windows.forms.messagebox]::show(%q, %q)`, body, title)
		args = []string{"-Command", script}
	case "darwin":
		cmd = "osascript"
		script := fmt.Sprintf(`display notification %q with title %q sound name "Ping"`, body, title)
		args = []string{"-e", script}
	default: // linux and the other unixes
		cmd = "notify-send"
		args = []string{title, body, "-u", "critical"}
	}

	if err := exec.Command(cmd, args...).Start(); err != nil {
		return fmt.Errorf("notify via %s: %w", cmd, err)
	}
	return nil
}

// OpenURL opens url in the default browser. Used by Force-level
// escalation to pull the user's attention somewhere unmissable.
func OpenURL(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	case "darwin":
		cmd = "open"
		args = []string{url}
	default: // "linux", "freebsd", "openbsd", "netbsd"
		cmd = "xdg-open"
		args = []string{url}
	}

	if err := exec.Command(cmd, args...).Start(); err != nil {
		return fmt.Errorf("open %s via %s: %w", url, cmd, err)
	}
	return nil
}
