package logger

import (
	"fmt"
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
)

type LogLevel string

const (
	LevelInfo    LogLevel = "INFO"
	LevelSuccess LogLevel = "SUCCESS"
	LevelWarning LogLevel = "WARNING"
	LevelError   LogLevel = "ERROR"
	LevelDebug   LogLevel = "DEBUG"
)

var (
	errorLogger  *stdlog.Logger
	errorLogFile *os.File

	// Separate AI logger so conversation traces don't clutter the error log
	aiLogger  *stdlog.Logger
	aiLogFile *os.File
)

func init() {
	dataDir := filepath.Join("data")

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		fmt.Printf("Error creating data directory: %v\n", err)
		return
	}

	logPath := filepath.Join(dataDir, "error.log")

	var err error
	errorLogFile, err = os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("Error opening error log file: %v\n", err)
	} else {
		errorLogger = stdlog.New(errorLogFile, "", 0)
	}

	aiLogPath := filepath.Join(dataDir, "ai.log")

	aiLogFile, err = os.OpenFile(aiLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("Error opening AI log file: %v\n", err)
	} else {
		aiLogger = stdlog.New(aiLogFile, "", 0)
	}
}

// CloseLogFile should be called during shutdown to properly close all log files
func CloseLogFile() {
	if errorLogFile != nil {
		errorLogFile.Close()
	}

	if aiLogFile != nil {
		aiLogFile.Close()
	}
}

var colorMap = map[string]func(a ...interface{}) string{
	string(LevelInfo):    color.New(color.FgBlue).SprintFunc(),
	string(LevelSuccess): color.New(color.FgGreen).SprintFunc(),
	string(LevelWarning): color.New(color.FgYellow).SprintFunc(),
	string(LevelError):   color.New(color.FgRed).SprintFunc(),
	string(LevelDebug):   color.New(color.FgCyan).SprintFunc(),

	"cyan":  color.New(color.FgCyan).SprintFunc(),
	"white": color.New(color.FgWhite).SprintFunc(),
	"green": color.New(color.FgGreen).SprintFunc(),
}

func GetColorFunc(colorName string) func(a ...interface{}) string {
	if fn, ok := colorMap[colorName]; ok {
		return fn
	}
	return colorMap["white"]
}

func logMessage(level LogLevel, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	colorFunc := GetColorFunc(string(level))
	fmt.Println(colorFunc(fmt.Sprintf("[%s] ", level)) + message)

	// Only errors and warnings go to error.log
	if level == LevelError || level == LevelWarning {
		if errorLogger != nil {
			errorLogger.Printf("[%s] %s: %s", level, timestamp, message)
		}
	}
}

func Infof(format string, args ...interface{}) {
	logMessage(LevelInfo, format, args...)
}

func Successf(format string, args ...interface{}) {
	logMessage(LevelSuccess, format, args...)
}

func Warnf(format string, args ...interface{}) {
	logMessage(LevelWarning, format, args...)
}

func Errorf(format string, args ...interface{}) {
	logMessage(LevelError, format, args...)
}

func Debugf(format string, args ...interface{}) {
	logMessage(LevelDebug, format, args...)
}

// AIDebugf logs AI-related debug messages to the AI log file instead of error.log
func AIDebugf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	colorFunc := GetColorFunc(string(LevelDebug))
	fmt.Println(colorFunc("[AI-DEBUG] ") + message)

	if aiLogger != nil {
		aiLogger.Printf("[DEBUG] %s: %s", timestamp, message)
	}
}

// Statusf renders a transient progress line for the interactive session.
// It is display-only and never mirrored to the log files.
func Statusf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	colorFunc := GetColorFunc("cyan")
	fmt.Println(colorFunc("[STATUS] ") + message)
}
