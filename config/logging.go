package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the process logger. It discards everything until InitDebugLog
// enables the debug log.
var Log = zap.NewNop()

var Debug = false

func CheckDebug() bool {
	debug := os.Getenv("SMARTBAR_DEBUG")
	return debug == "true" || debug == "1"
}

// InitDebugLog installs a JSON logger writing to <dataDir>/debug.log when
// SMARTBAR_DEBUG is set. The terminal belongs to the TUI, so nothing is
// written to stdout.
func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	logPath := filepath.Join(dataDir, "debug.log")
	if err := EnsureDir(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	rotator := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		zap.DebugLevel,
	)

	Debug = true
	Log = zap.New(core, zap.AddCaller())
	Log.Info("debug logging started",
		zap.String("SMARTBAR_DEBUG", os.Getenv("SMARTBAR_DEBUG")),
		zap.String("path", logPath))
}

// SyncLog flushes buffered log entries; call before exit.
func SyncLog() {
	_ = Log.Sync()
}
