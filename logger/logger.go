package logger

import (
	"io"
	"os"
	"sync"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/sirupsen/logrus"
)

const projectName = "tempo"

var (
	projectLogger *logrus.Logger
	once          sync.Once
)

func initLogger() {
	projectLogger = logrus.New()
	projectLogger.SetOutput(os.Stderr)
	projectLogger.SetLevel(logrus.InfoLevel)
	projectLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
}

// GetProjectLogger returns the shared logger, tagged with the project name.
func GetProjectLogger() *logrus.Entry {
	once.Do(initLogger)
	return projectLogger.WithField("name", projectName)
}

// SetLevel parses level ("debug", "info", "warn", ...) and applies it to the project logger.
func SetLevel(level string) error {
	once.Do(initLogger)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.WithStackTrace(err)
	}
	projectLogger.SetLevel(lvl)
	return nil
}

// SetOutput redirects the project logger, e.g. away from a terminal in raw mode.
func SetOutput(w io.Writer) {
	once.Do(initLogger)
	projectLogger.SetOutput(w)
}
