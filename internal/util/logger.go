package util

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const LOG_BUFFER_SIZE = 1000

var (
	ErrLogNotInitialized = errors.New("log object is not initialized yet")
	logFolderPath        = "log"
	globalLogLevel       = LOG_LEVEL_INFO
)

const (
	LOG_LEVEL_ERROR = iota + 1
	LOG_LEVEL_WARN
	LOG_LEVEL_INFO
	LOG_LEVEL_DEBUG
)

// AppLogger buffers leveled messages through a channel and drains them to a
// zap console encoder writing to a log file.
type AppLogger struct {
	logBuffer   chan leveledEntry
	handle      *os.File
	wg          *sync.WaitGroup
	initialized bool
	zapLogger   *zap.Logger
}

type leveledEntry struct {
	level  int
	logMsg string
}

func (a *AppLogger) Init(logFileName string, rewrite bool) error {
	a.wg = new(sync.WaitGroup)
	a.logBuffer = make(chan leveledEntry, LOG_BUFFER_SIZE)

	flags := os.O_RDWR | os.O_CREATE | os.O_APPEND
	if rewrite {
		flags = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	}

	var err error
	a.handle, err = os.OpenFile(logFolderPath+string(os.PathSeparator)+logFileName, flags, 0666)
	if err != nil {
		return err
	}

	a.zapLoggerInit()

	a.wg.Add(1)
	go a.drainLoop()

	a.initialized = true
	return nil
}

func (a *AppLogger) zapLoggerInit() {
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(config),
		zapcore.AddSync(a.handle),
		zapLevel(globalLogLevel),
	)
	a.zapLogger = zap.New(core)
}

func zapLevel(level int) zapcore.Level {
	switch level {
	case LOG_LEVEL_ERROR:
		return zapcore.ErrorLevel
	case LOG_LEVEL_WARN:
		return zapcore.WarnLevel
	case LOG_LEVEL_DEBUG:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

func (a *AppLogger) drainLoop() {
	for entry := range a.logBuffer {
		switch entry.level {
		case LOG_LEVEL_ERROR:
			a.zapLogger.Error(entry.logMsg)
		case LOG_LEVEL_WARN:
			a.zapLogger.Warn(entry.logMsg)
		case LOG_LEVEL_DEBUG:
			a.zapLogger.Debug(entry.logMsg)
		default:
			a.zapLogger.Info(entry.logMsg)
		}
	}
	a.zapLogger.Sync()
	a.wg.Done()
}

// LogEvent accepts an optional leading level constant followed by the
// message values. A bare message defaults to info.
func (a *AppLogger) LogEvent(v ...interface{}) error {
	var msg string
	level := LOG_LEVEL_INFO

	if len(v) == 1 {
		msg = fmt.Sprint(v[0])
	} else if len(v) > 1 {
		if lvl, ok := v[0].(int); ok && lvl >= LOG_LEVEL_ERROR && lvl <= LOG_LEVEL_DEBUG {
			level = lvl
			msg = fmt.Sprint(v[1:]...)
		} else {
			msg = fmt.Sprint(v...)
		}
	}

	if !a.initialized {
		return ErrLogNotInitialized
	}
	a.logBuffer <- leveledEntry{level, msg}
	return nil
}

func (a *AppLogger) DeInit() {
	if !a.initialized {
		return
	}
	a.initialized = false
	close(a.logBuffer)
	a.wg.Wait()
	a.handle.Close()
}

func SetGlobalLogLevel(level int) {
	globalLogLevel = level
}

func SetLoggerPath(logPath string) {
	logFolderPath = logPath
}

func CheckAndCreateLogFolder(folderPath string) {
	if _, err := os.Stat(folderPath); os.IsNotExist(err) {
		if err := os.MkdirAll(folderPath, 0755); err != nil {
			fmt.Println("Failed to create the log folder:", err)
		}
	}
}
