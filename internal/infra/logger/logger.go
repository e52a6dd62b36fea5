// internal/infra/logger/logger.go
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds the application logger.
// Production and staging get JSON output; every other environment gets colored text.
func New(level, environment string) *logrus.Logger {
	return newWithOutput(level, environment, os.Stdout)
}

func newWithOutput(level, environment string, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		log.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", level, err)
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	switch strings.ToLower(environment) {
	case "production", "staging":
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00", // ISO8601
		})
	default:
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	}

	log.WithField("environment", environment).Debugf("Logger initialized at level %s", log.GetLevel())
	return log
}

// CronAdapter lets the cron engine log through logrus.
// It satisfies cron.Logger.
type CronAdapter struct {
	Entry *logrus.Entry
}

func (a CronAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.Entry.WithFields(toFields(keysAndValues)).Debug(msg)
}

func (a CronAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	a.Entry.WithFields(toFields(keysAndValues)).WithError(err).Error(msg)
}

func toFields(keysAndValues []interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
