package gravint

import (
	"fmt"
	"io"
	"strings"
)

// Logger accumulates trace messages during an integration run and writes
// them to Output on Flush. Mirrors the teacher's godesim.Logger: a plain
// strings.Builder accumulator, no external logging dependency. A nil
// *Logger is valid everywhere it's accepted and simply discards Logf
// calls, turning tracing off.
type Logger struct {
	Output io.Writer
	buff   strings.Builder
}

// NewLogger creates a Logger writing to w.
func NewLogger(w io.Writer) *Logger {
	return &Logger{Output: w}
}

// Logf formats a trace message. Safe to call on a nil *Logger.
func (l *Logger) Logf(format string, a ...interface{}) {
	if l == nil {
		return
	}
	l.buff.WriteString(fmt.Sprintf(format, a...))
}

// Flush writes accumulated messages to Output and resets the buffer.
func (l *Logger) Flush() {
	if l == nil || l.Output == nil {
		return
	}
	io.WriteString(l.Output, l.buff.String())
	l.buff.Reset()
}
