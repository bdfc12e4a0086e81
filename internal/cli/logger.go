package cli

import (
	"io"

	"github.com/sirupsen/logrus"

	"cloth-mask/internal/config"
)

// NewLogger builds the process logger. Text output gets full timestamps;
// JSON output uses a fixed timestamp layout.
func NewLogger(cfg config.LogConfig, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)

	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	logger.WithField("log_level", level.String()).Debug("Debug logging enabled")
	return logger, nil
}
