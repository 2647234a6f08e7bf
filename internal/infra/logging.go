package infra

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogging configures the global zerolog logger: a console writer by
// default, plain JSON lines with format "json".
func SetupLogging(cfg LogConfig, out io.Writer) error {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return fmt.Errorf("config: log.level: %w", err)
		}
	}
	zerolog.SetGlobalLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}
	return nil
}

// LogRetries logs every retry of a remote dataset load (sql, s3) at warn level.
func LogRetries(cfg *Config) {
	source := cfg.Dataset.Name()
	cfg.Dataset.Retry.OnRetry = func(attempt int, err error, delay time.Duration) {
		log.Warn().
			Err(err).
			Str("source", source).
			Int("attempt", attempt).
			Dur("delay", delay).
			Msg("dataset load failed, retrying")
	}
}
