package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stopwatch starts timing now. The returned func logs msg at info level
// with the elapsed time appended, e.g. "Converted order.bpmn (84ms)".
func stopwatch(l *log.Logger) func(msg string) {
	start := time.Now()
	return func(msg string) {
		l.Infof("%s (%s)", msg, time.Since(start).Round(time.Millisecond))
	}
}
