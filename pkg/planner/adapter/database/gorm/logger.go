package gorm

import (
	"fmt"
	"strings"
	"time"

	gormlogger "gorm.io/gorm/logger"

	config "github.com/navi-mes/planfeed/pkg/planner/core/config"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/logger"
)

// NewGormLogger creates a gorm logger at the given application log level.
// Statements are only traced at DEBUG and TRACE.
func NewGormLogger(level string) gormlogger.Interface {
	var gormLevel gormlogger.LogLevel
	switch config.LogLevel(strings.ToUpper(level)) {
	case config.LogLevelTrace, config.LogLevelDebug:
		gormLevel = gormlogger.Info
	case config.LogLevelInfo, config.LogLevelWarn:
		gormLevel = gormlogger.Warn
	case config.LogLevelError, config.LogLevelFatal:
		gormLevel = gormlogger.Error
	default:
		gormLevel = gormlogger.Silent
	}

	return gormlogger.New(
		NewGormWriter(),
		gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// GormWriter redirects gorm output to the application logger.
type GormWriter struct{}

// NewGormWriter creates a new instance of GormWriter.
func NewGormWriter() *GormWriter {
	return &GormWriter{}
}

// Printf implements gormlogger.Writer.
func (w *GormWriter) Printf(format string, v ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, v...))
	switch {
	case strings.Contains(msg, "SLOW SQL"):
		logger.Warnf("[GORM] %s", msg)
	case strings.Contains(msg, "SELECT"):
		logger.Debugf("[GORM] %s", msg)
	default:
		logger.Infof("[GORM] %s", msg)
	}
}
