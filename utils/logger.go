package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. Info and above go as JSON to
// <logDir>/YYYY/MM/YYYY-MM-DD.log, everything goes to stdout.
func NewLogger(logDir string) (*zap.Logger, error) {
	today := time.Now()

	// logs/YYYY/MM
	dayDir := filepath.Join(logDir, today.Format("2006"), today.Format("01"))
	logFileName := filepath.Join(dayDir, today.Format("2006-01-02")+".log")

	if err := os.MkdirAll(dayDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("creating log folder structure: %w", err)
	}

	file, err := os.OpenFile(logFileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.MessageKey = "msg"
	encoderConfig.LevelKey = "level"
	encoderConfig.CallerKey = "caller"
	encoderConfig.StacktraceKey = "stacktrace"
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 3:04:05 pm")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	fileEncoder := zapcore.NewJSONEncoder(encoderConfig)

	core := zapcore.NewTee(
		zapcore.NewCore(fileEncoder, zapcore.AddSync(file), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= zapcore.InfoLevel
		})),
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), zap.DebugLevel),
	)

	return zap.New(core, zap.AddCaller()), nil
}
