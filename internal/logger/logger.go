// Package logger exposes a shared structured logger for the whole service.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Call Init before using it.
var Log = logrus.New()

// Init configures the logger. In production we emit JSON lines so log
// collectors can parse fields; anywhere else a human-readable format is used.
func Init(env string) {
	Log.SetOutput(os.Stdout)
	Log.SetLevel(logrus.InfoLevel)

	if env == "prod" {
		Log.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if env == "dev" {
		Log.SetLevel(logrus.DebugLevel)
	}
}
