package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Logger for debug messages
var (
	isVerbose = false
	logFile   *os.File
)

// LogDir is where verbose logs are written.
var LogDir = os.TempDir()

// WarnOutput receives warnings regardless of verbosity.
var WarnOutput io.Writer = os.Stderr

// Log prints debug messages to the log file if verbose mode is enabled
func Log(text string, args ...interface{}) {
	if isVerbose && logFile != nil {
		fmt.Fprintf(logFile, time.Now().Format("15:04:05")+" "+text+"\n", args...)
	}
}

// Warn reports a recoverable problem to WarnOutput and the log file.
func Warn(text string, args ...interface{}) {
	fmt.Fprintf(WarnOutput, "warning: "+text+"\n", args...)
	Log("Warning: "+text, args...)
}

// InitLogger initializes the logging system
func InitLogger(verbose bool) {
	isVerbose = verbose

	if verbose {
		// One log file per day
		logFileName := filepath.Join(LogDir, fmt.Sprintf("studioid_%s.log", time.Now().Format("2006-01-02")))

		var err error
		logFile, err = os.OpenFile(logFileName, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating log file: %v\n", err)
			return
		}

		Log("Verbose logging enabled")
	}
}

// LogPath returns the open log file's path, or "" when logging is off.
func LogPath() string {
	if logFile == nil {
		return ""
	}
	return logFile.Name()
}

// CloseLogger closes the log file if it's open
func CloseLogger() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	isVerbose = false
}
