package tomlconfig

import (
	"fmt"
	"io"
	"os"
)

// Logger defines minimal logging used inside the package.
type Logger interface {
	Printf(format string, args ...any)
}

type writerLogger struct {
	w io.Writer
}

func (l writerLogger) Printf(format string, args ...any) {
	fmt.Fprintf(l.w, format+"\n", args...)
}

// NewLogger returns a Logger writing to w (os.Stdout when w is nil).
func NewLogger(w io.Writer) Logger {
	if w == nil {
		w = os.Stdout
	}
	return writerLogger{w: w}
}
