package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// TimeFormat is the timestamp format of execution log lines
const TimeFormat = "2006-01-02 15:04:05"

// ExecutionLog represents the append-only plain text log every vendor API call is dumped to
type ExecutionLog struct {
	file   *os.File
	Logger zerolog.Logger
}

// OpenExecutionLog opens (or creates) the execution log at path in append mode.
// Every line the returned logger writes carries the given run ID.
func OpenExecutionLog(path, runID string, level zerolog.Level) (*ExecutionLog, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &ExecutionLog{
		file:   file,
		Logger: New(file, level).With().Str("run", runID).Logger(),
	}, nil
}

// Close closes the underlying log file
func (log *ExecutionLog) Close() error {
	return log.file.Close()
}

// New creates a plain text logger writing one timestamped line per event to out
func New(out io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		TimeFormat: TimeFormat,
	}).Level(level).With().Timestamp().Logger()
}

// Console creates the pretty printing logger used for operator-facing messages on stderr
func Console() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out: os.Stderr,
	}).With().Timestamp().Logger()
}
