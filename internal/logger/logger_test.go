package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitLevels(t *testing.T) {
	tests := []struct {
		name  string
		quiet bool
		debug bool
		want  zerolog.Level
	}{
		{name: "default", want: zerolog.InfoLevel},
		{name: "quiet", quiet: true, want: zerolog.WarnLevel},
		{name: "debug", debug: true, want: zerolog.DebugLevel},
		{name: "debug wins over quiet", quiet: true, debug: true, want: zerolog.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(tt.quiet, false, tt.debug)
			if got := Level(); got != tt.want {
				t.Fatalf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetOutputCaptures(t *testing.T) {
	Init(false, false, false)

	var buf bytes.Buffer
	SetOutput(&buf)

	Log.Info().Str("k", "v").Msg("captured")

	if !bytes.Contains(buf.Bytes(), []byte("captured")) {
		t.Fatalf("output %q missing message", buf.String())
	}
}

func TestIsTerminalNonFile(t *testing.T) {
	var buf bytes.Buffer
	if isTerminal(&buf) {
		t.Fatal("bytes.Buffer reported as terminal")
	}
}

func TestIsTerminalRegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "log")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if isTerminal(f) {
		t.Fatal("regular file reported as terminal")
	}
}
