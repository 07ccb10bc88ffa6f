package shared

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

var (
	getRuntime = func() string { return runtime.GOOS }
	startCmd   = func(cmd *exec.Cmd) error { return cmd.Start() }
)

// OpenBrowser opens the default system browser to the specified URL.
//
// Only absolute http(s) URLs are accepted. Supports macOS, Linux, and Windows platforms.
func OpenBrowser(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: not an http(s) URL: %q", ErrInvalidArgument, rawURL)
	}

	var cmd *exec.Cmd
	switch rt := getRuntime(); rt {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "linux":
		cmd = exec.Command("xdg-open", rawURL)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", rawURL)
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := startCmd(cmd); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
