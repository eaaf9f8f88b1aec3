// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ringtb

import "log"

// A Level is a logging verbosity level.
//
type Level int

// Logging levels, in increasing verbosity.
//
const (
	LogError Level = iota
	LogInfo
	LogDebug
)

var logLevel = LogError

// SetLogLevel sets the package's logging verbosity. The default level is
// LogError. Logging goes through the standard library's log package;
// redirect it with log.SetOutput.
//
func SetLogLevel(l Level) {
	logLevel = l
}

func logf(l Level, prefix, format string, v ...interface{}) {
	if l > logLevel {
		return
	}
	log.Printf(prefix+format, v...)
}

func errorf(format string, v ...interface{}) { logf(LogError, "[ERROR] ", format, v...) }
func infof(format string, v ...interface{})  { logf(LogInfo, "[INFO] ", format, v...) }
func debugf(format string, v ...interface{}) { logf(LogDebug, "[DEBUG] ", format, v...) }
