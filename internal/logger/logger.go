package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger writes human readable logs to stdout when shouldOutputToConsole is
// set, otherwise JSON lines appended to logFile.
func NewLogger(shouldOutputToConsole bool, logFile string) (zerolog.Logger, error) {
	var output io.Writer

	if shouldOutputToConsole {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	} else { // its on server. so log to file
		if err := os.MkdirAll(filepath.Dir(logFile), 0o775); err != nil {
			return zerolog.Nop(), fmt.Errorf("can not create the log dir: %w", err)
		}
		file, err := os.OpenFile(
			logFile,
			os.O_APPEND|os.O_CREATE|os.O_WRONLY,
			0664,
		)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("error opening the log file for write: %w", err)
		}
		output = file
	}

	return newLogger(output), nil
}

func newLogger(output io.Writer) zerolog.Logger {
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.DefaultContextLogger = nil
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}

	log.Logger = zerolog.New(output).With().Caller().Timestamp().Logger()

	return log.Logger
}
