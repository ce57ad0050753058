package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// LogFilePath returns today's log file under dir.
func LogFilePath(dir string, now time.Time) string {
	return filepath.Join(dir, "app_"+now.Format("20060102")+".log")
}

// InitLogging configures the standard logrus logger once at startup. Output
// goes to stdout and, when the log directory is writable, to a daily file.
// The returned file, if any, is closed by the caller on shutdown.
func InitLogging(cfg LoggingConfig) (*os.File, io.Writer) {
	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	var writer io.Writer = os.Stdout
	if cfg.Dir == "" {
		log.SetOutput(writer)
		return nil, writer
	}

	if err := os.MkdirAll(cfg.Dir, os.ModePerm); err != nil {
		log.Warnf("Failed to create logs directory: %v", err)
		log.SetOutput(writer)
		return nil, writer
	}

	logFile, err := os.OpenFile(LogFilePath(cfg.Dir, time.Now()), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Warnf("Failed to open log file: %v", err)
		log.SetOutput(writer)
		return nil, writer
	}

	writer = io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(writer)
	return logFile, writer
}
