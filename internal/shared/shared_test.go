package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNormalizeQuery(t *testing.T) {
	tc := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "basic normalization",
			query: "Breaking Bad",
			want:  "breaking bad",
		},
		{
			name:  "extra whitespace",
			query: "  Breaking   Bad  ",
			want:  "breaking bad",
		},
		{
			name:  "whitespace only",
			query: " \t  ",
			want:  "",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeQuery(tt.query)
			if got != tt.want {
				t.Errorf("NormalizeQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("NewLogger writes to the given writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello", "key", "value")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output to contain message, got %q", buf.String())
		}
		if !strings.Contains(buf.String(), "key=value") {
			t.Errorf("expected log output to contain key=value, got %q", buf.String())
		}
	})

	t.Run("SetLogLevel filters lower levels", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		SetLogLevel(logger, log.WarnLevel)
		logger.Info("quiet")

		if buf.Len() != 0 {
			t.Errorf("expected info to be filtered, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "tvx.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger() error = %v", err)
		}
		logger.Info("to file")

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "to file") {
			t.Errorf("expected file to contain log line, got %q", string(data))
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected distinct ids")
	}
	if len(a) != 36 {
		t.Errorf("expected uuid string of length 36, got %d", len(a))
	}
}

func TestFormatRuntime(t *testing.T) {
	intPtr := func(n int) *int { return &n }

	tt := []struct {
		in   *int
		want string
	}{
		{nil, "-"},
		{intPtr(0), "-"},
		{intPtr(45), "45m"},
		{intPtr(60), "1h 00m"},
		{intPtr(125), "2h 05m"},
	}

	for _, tc := range tt {
		if got := FormatRuntime(tc.in); got != tc.want {
			t.Errorf("FormatRuntime() = %q, want %q", got, tc.want)
		}
	}
}

func TestMarshalJSON(t *testing.T) {
	v := map[string]int{"id": 1}

	compact, err := MarshalJSON(v, false)
	if err != nil || string(compact) != `{"id":1}` {
		t.Errorf("MarshalJSON(compact) = %s, %v", compact, err)
	}

	pretty, err := MarshalJSON(v, true)
	if err != nil || string(pretty) != "{\n  \"id\": 1\n}" {
		t.Errorf("MarshalJSON(pretty) = %s, %v", pretty, err)
	}
}
