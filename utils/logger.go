package utils

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process logger. Level comes from FREESCAPE_LOG_LEVEL
// (default "info"); FREESCAPE_LOG_FORMAT=json switches to JSON output.
var Log *logrus.Logger

func init() {
	Log = logrus.New()

	level, err := logrus.ParseLevel(os.Getenv("FREESCAPE_LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.ToLower(os.Getenv("FREESCAPE_LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	Log.SetOutput(os.Stderr)
}

// Debug channels.
const (
	ChannelParser = "parser"
	ChannelCode   = "code"
	ChannelMove   = "move"
	ChannelWeb    = "web"
)

func Channel(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
