package obs

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger returns a component-scoped structured logger. The APP_ENV
// environment variable selects the output format: "dev" gets a human
// console writer, everything else gets JSON.
func Logger(component string) zerolog.Logger {
	env := strings.ToLower(os.Getenv("APP_ENV"))
	if env == "dev" {
		writer := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(writer).With().Timestamp().Str("component", component).Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Str("component", component).Logger()
}
