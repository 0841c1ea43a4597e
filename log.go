package nql

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	errors "gopkg.in/src-d/go-errors.v1"
)

// ErrInvalidLogFormat is returned for a log format other than text or json.
var ErrInvalidLogFormat = errors.NewKind("invalid log format: %s")

// NewLogger creates a logger writing to out with the level and format of
// the given configuration.
func NewLogger(config LogConfig, out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.Out = out

	if config.Level != "" {
		level, err := logrus.ParseLevel(config.Level)
		if err != nil {
			return nil, err
		}
		logger.SetLevel(level)
	}

	switch strings.ToLower(config.Format) {
	case "", "text":
		logger.Formatter = &logrus.TextFormatter{}
	case "json":
		logger.Formatter = &logrus.JSONFormatter{}
	default:
		return nil, ErrInvalidLogFormat.New(config.Format)
	}

	return logger, nil
}
