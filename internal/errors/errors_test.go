package errors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "simple error", err: errors.New("write refused"), expected: "Error: write refused"},
		{
			name:     "wrapped error",
			err:      fmt.Errorf("failed to save japa session: %w", errors.New("disk full")),
			expected: "Error: failed to save japa session: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.err); got != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, got, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("unknown stotra %q", "9")
	want := `Error: unknown stotra "9"`
	if got != want {
		t.Errorf("Formatf() = %q, want %q", got, want)
	}
}

// Fatal exits, so it runs in a re-executed test binary.
func TestFatal(t *testing.T) {
	if os.Getenv("SADHANA_TEST_FATAL") == "1" {
		Fatal(errors.New("store unavailable"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestFatal$")
	cmd.Env = append(os.Environ(), "SADHANA_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Fatal() did not exit with error: %v", err)
	}
	if exitErr.ExitCode() != 1 {
		t.Errorf("Fatal() exit code = %d, want 1", exitErr.ExitCode())
	}
	if !strings.Contains(stderr.String(), "Error: store unavailable") {
		t.Errorf("Fatal() stderr = %q", stderr.String())
	}
}

func TestFatal_NilError(t *testing.T) {
	if os.Getenv("SADHANA_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestFatal_NilError$")
	cmd.Env = append(os.Environ(), "SADHANA_TEST_FATAL_NIL=1")
	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, got: %v", err)
	}
}
