package zerolog_config

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.elastic.co/ecszerolog"
)

var startupOnce sync.Once

// ElasticsearchWriter sends logs directly to Elasticsearch
type ElasticsearchWriter struct {
	URL string
}

func (ew ElasticsearchWriter) Write(p []byte) (n int, err error) {
	resp, err := http.Post(
		ew.URL+"/_doc",
		"application/json",
		bytes.NewBuffer(p),
	)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("elasticsearch returned %d", resp.StatusCode)
	}

	return len(p), nil
}

func startupLogger(elasticsearchURL, app string, debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout}

	if elasticsearchURL == "" {
		// Console only
		log.Logger = zerolog.New(consoleWriter).With().Str("app", app).
			Timestamp().Logger()
		return
	}

	// ECS format for Elasticsearch plus pretty console output
	ecsLogger := ecszerolog.New(&ElasticsearchWriter{
		URL: elasticsearchURL + "/" + app,
	})

	multi := zerolog.MultiLevelWriter(
		ecsLogger,
		consoleWriter,
	)

	log.Logger = zerolog.New(multi).With().Str("app", app).
		Timestamp().Logger()
}

// Startup configures the global logger for one of the migration binaries.
// elasticsearchURL may be empty, in which case logs go to the console only.
func Startup(elasticsearchURL, app string, debug bool) error {
	if app == "" {
		return fmt.Errorf("app name is required")
	}
	startupOnce.Do(func() {
		startupLogger(elasticsearchURL, app, debug)
	})
	return nil
}
