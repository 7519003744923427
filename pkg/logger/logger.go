package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// Log is the shared logger. It defaults to a colored console writer;
// Setup switches it to plain JSON when the server runs in release mode.
var Log zerolog.Logger

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	Log = newLogger(true).Level(zerolog.InfoLevel)
	log.Logger = Log
}

// Setup configures the global logger for the given server mode. Debug
// mode keeps the console writer at debug level; anything else logs JSON
// at info level.
func Setup(mode string) {
	level := zerolog.InfoLevel
	console := false
	if mode == "debug" {
		level = zerolog.DebugLevel
		console = true
	}

	zerolog.SetGlobalLevel(level)
	Log = newLogger(console).Level(level)
	log.Logger = Log
}

func newLogger(console bool) zerolog.Logger {
	if console {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "2006-01-02 15:04:05",
		}).With().Timestamp().Caller().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
