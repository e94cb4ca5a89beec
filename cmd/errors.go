package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// PrintError prints an error message without exiting, allowing for recovery.
// In verbose mode the underlying technical error is shown instead of the
// user-facing message.
func PrintError(userMsg string, technicalErr error) {
	if viper.GetBool("verbose") && technicalErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", technicalErr)
	} else {
		fmt.Fprintln(os.Stderr, userMsg)
	}
}

// HandleFatalError handles unrecoverable errors that terminate the program.
func HandleFatalError(userMsg string, technicalErr error) {
	PrintError(userMsg, technicalErr)
	os.Exit(1)
}

// LogError logs a diagnostic message to stderr in verbose mode only.
func LogError(msg string, err error) {
	if !viper.GetBool("verbose") {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "[DEBUG] %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "[DEBUG] %s\n", msg)
	}
}
