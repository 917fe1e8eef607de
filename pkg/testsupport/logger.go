package testsupport

import (
	"log/slog"
	"testing"
)

type testWriter struct {
	t testing.TB
}

func (w *testWriter) Write(p []byte) (int, error) {
	n := len(p)
	if n > 0 && p[n-1] == '\n' {
		p = p[:n-1]
	}
	w.t.Logf("%s", p)
	return n, nil
}

// NewLogger returns a debug-level slog.Logger that writes through t.Logf, so
// log output only shows up for failing or verbose tests.
func NewLogger(t testing.TB) *slog.Logger {
	t.Helper()

	handler := slog.NewTextHandler(&testWriter{t: t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return slog.New(handler)
}
