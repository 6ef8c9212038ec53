package errors

import (
	"fmt"
	"os"
	"strings"

	"github.com/Will-L07/scheduler/internal/logger"
)

// Format formats an error message with a consistent "Error: " prefix.
// Joined errors are rendered one per line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		parts := joined.Unwrap()
		lines := make([]string, 0, len(parts))
		for _, e := range parts {
			if e != nil {
				lines = append(lines, fmt.Sprintf("Error: %v", e))
			}
		}
		return strings.Join(lines, "\n")
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
