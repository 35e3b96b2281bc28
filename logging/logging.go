// Package logging provides leveled, colored log output for the service.
package logging

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/fatih/color"
)

var (
	std = log.New(color.Output, "", log.LstdFlags)

	infoLabel  = color.New(color.FgGreen, color.Bold).Sprint("[INFO]")
	warnLabel  = color.New(color.FgYellow, color.Bold).Sprint("[WARN]")
	errorLabel = color.New(color.FgRed, color.Bold).Sprint("[ERROR]")
	debugLabel = color.New(color.FgCyan).Sprint("[DEBUG]")

	debugEnabled atomic.Bool
)

// SetDebug turns Debugf output on or off.
func SetDebug(enabled bool) {
	debugEnabled.Store(enabled)
}

// Infof logs a routine event.
func Infof(format string, args ...any) {
	std.Printf("%s %s", infoLabel, fmt.Sprintf(format, args...))
}

// Warnf logs something unexpected that the service recovered from.
func Warnf(format string, args ...any) {
	std.Printf("%s %s", warnLabel, fmt.Sprintf(format, args...))
}

// Errorf logs a failure.
func Errorf(format string, args ...any) {
	std.Printf("%s %s", errorLabel, fmt.Sprintf(format, args...))
}

// Debugf logs only when debug output is enabled.
func Debugf(format string, args ...any) {
	if !debugEnabled.Load() {
		return
	}
	std.Printf("%s %s", debugLabel, fmt.Sprintf(format, args...))
}

// Fatalf logs and exits.
func Fatalf(format string, args ...any) {
	std.Fatalf("%s %s", errorLabel, fmt.Sprintf(format, args...))
}
