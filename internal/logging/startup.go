package logging

import (
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// StartupLogger collects Lambda identity, buckets, and configuration, then
// emits a single structured event summarising the cold-start state. This makes
// it easy to see exactly how a Lambda was configured when troubleshooting from
// CloudWatch logs.
type StartupLogger struct {
	name         string
	initDuration time.Duration
	s3Buckets    map[string]string
	config       map[string]string
	getenv       func(string) string
}

// NewStartupLogger creates a StartupLogger for the given Lambda name.
func NewStartupLogger(name string) *StartupLogger {
	return &StartupLogger{
		name:      name,
		s3Buckets: make(map[string]string),
		config:    make(map[string]string),
		getenv:    os.Getenv,
	}
}

// S3Bucket registers an S3 bucket used by this Lambda.
func (s *StartupLogger) S3Bucket(label, name string) *StartupLogger {
	s.s3Buckets[label] = name
	return s
}

// Config registers a non-sensitive configuration key-value pair.
func (s *StartupLogger) Config(key, value string) *StartupLogger {
	s.config[key] = value
	return s
}

// InitDuration records how long cold-start initialization took.
func (s *StartupLogger) InitDuration(d time.Duration) *StartupLogger {
	s.initDuration = d
	return s
}

// Log emits the collected information as one INFO event on logger.
func (s *StartupLogger) Log(logger zerolog.Logger) {
	// The runtime sets these; they are read for display only.
	lambdaDict := zerolog.Dict().
		Str("name", s.name).
		Str("functionName", s.getenv("AWS_LAMBDA_FUNCTION_NAME")).
		Str("version", s.getenv("AWS_LAMBDA_FUNCTION_VERSION")).
		Str("region", s.getenv("AWS_REGION")).
		Str("memoryMB", s.getenv("AWS_LAMBDA_FUNCTION_MEMORY_SIZE")).
		Str("goVersion", runtime.Version()).
		Str("arch", runtime.GOARCH)

	evt := logger.Info().Dict("lambda", lambdaDict)

	if len(s.s3Buckets) > 0 {
		evt = evt.Dict("s3Buckets", dictFromMap(s.s3Buckets))
	}
	if len(s.config) > 0 {
		evt = evt.Dict("config", dictFromMap(s.config))
	}
	if s.initDuration > 0 {
		evt = evt.Dur("initDuration", s.initDuration)
	}

	evt.Msg("Lambda cold start complete")
}

func dictFromMap(m map[string]string) *zerolog.Event {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := zerolog.Dict()
	for _, k := range keys {
		d = d.Str(k, m[k])
	}
	return d
}
