package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns the process-wide zerolog Logger, tagged with the
// service name. APP_ENV=dev (or development) uses a console writer.
func NewLogger(env string) zerolog.Logger {
	l := zerolog.New(os.Stdout)
	if env == "dev" || env == "development" {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	return l.With().Timestamp().Str("service", "pricing_insights").Logger()
}
