package shared

import (
	"errors"
	"os/exec"
	"testing"
)

func TestOpenBrowser(t *testing.T) {
	origRuntime, origStart := getRuntime, startCmd
	t.Cleanup(func() {
		getRuntime, startCmd = origRuntime, origStart
	})

	tt := []struct {
		name     string
		runtime  string
		url      string
		wantArgs []string
		wantErr  bool
	}{
		{name: "linux", runtime: "linux", url: "https://www.tvmaze.com/shows/1", wantArgs: []string{"xdg-open", "https://www.tvmaze.com/shows/1"}},
		{name: "darwin", runtime: "darwin", url: "https://www.tvmaze.com/shows/1", wantArgs: []string{"open", "https://www.tvmaze.com/shows/1"}},
		{name: "windows", runtime: "windows", url: "http://example.com", wantArgs: []string{"cmd", "/c", "start", "http://example.com"}},
		{name: "unsupported platform", runtime: "plan9", url: "http://example.com", wantErr: true},
		{name: "rejects non-http scheme", runtime: "linux", url: "file:///etc/passwd", wantErr: true},
		{name: "rejects relative url", runtime: "linux", url: "/shows/1", wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			var gotArgs []string
			getRuntime = func() string { return tc.runtime }
			startCmd = func(cmd *exec.Cmd) error {
				gotArgs = cmd.Args
				return nil
			}

			err := OpenBrowser(tc.url)
			if (err != nil) != tc.wantErr {
				t.Fatalf("OpenBrowser() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if len(gotArgs) != len(tc.wantArgs) {
				t.Fatalf("args = %v, want %v", gotArgs, tc.wantArgs)
			}
			for i := range gotArgs {
				if gotArgs[i] != tc.wantArgs[i] {
					t.Errorf("args[%d] = %q, want %q", i, gotArgs[i], tc.wantArgs[i])
				}
			}
		})
	}

	t.Run("start failure is wrapped", func(t *testing.T) {
		getRuntime = func() string { return "linux" }
		startCmd = func(*exec.Cmd) error { return errors.New("boom") }

		if err := OpenBrowser("https://example.com"); err == nil {
			t.Error("expected error when command fails to start")
		}
	})
}
