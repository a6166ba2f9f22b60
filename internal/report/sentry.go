package report

import (
	"fmt"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
)

// SetupSentry initializes the Sentry client from SENTRY_DSN. Without a DSN the client
// is a no-op and reported errors are dropped.
func SetupSentry(env, release string) error {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              os.Getenv("SENTRY_DSN"),
		Environment:      env,
		Release:          release,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
	}); err != nil {
		return fmt.Errorf("sentry.Init: %w", err)
	}
	if os.Getenv("SENTRY_DSN") != "" {
		sentry.CaptureMessage("Transit catalog started")
	}
	return nil
}

func FlushSentry() {
	sentry.Flush(2 * time.Second)
}
