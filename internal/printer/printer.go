// Package printer formats CLI output with colors.
package printer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/dyluth/factorydash/pkg/factoryapi"
	"github.com/fatih/color"
)

func init() {
	// Force color output even when not connected to TTY
	// Users can disable with NO_COLOR environment variable
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	bold   = color.New(color.Bold)

	mu     sync.Mutex
	out    io.Writer = os.Stdout
	errOut io.Writer = os.Stderr
)

// SetOutput redirects normal and error output. Nil keeps the current writer.
func SetOutput(stdout, stderr io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if stdout != nil {
		out = stdout
	}
	if stderr != nil {
		errOut = stderr
	}
}

func writers() (io.Writer, io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	return out, errOut
}

// Success prints a success message in green with a checkmark prefix
func Success(format string, a ...any) {
	w, _ := writers()
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		msg = "✓ " + msg
	}
	green.Fprint(w, msg)
}

// Info prints an informational message in the default color
func Info(format string, a ...any) {
	w, _ := writers()
	fmt.Fprintf(w, format, a...)
}

// Warning prints a warning message in yellow with a warning emoji prefix
func Warning(format string, a ...any) {
	w, _ := writers()
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "⚠️") {
		msg = "⚠️  " + msg
	}
	yellow.Fprint(w, msg)
}

// Alert prints the banner shown when live data could not be fetched and
// fallback values are displayed instead.
func Alert(title, detail string) {
	_, ew := writers()
	red.Fprintf(ew, "%s\n", title)
	if detail != "" {
		fmt.Fprintf(ew, "  %s\n", detail)
	}
}

// Error creates a formatted error message with title, explanation, and suggestions
// Prints the formatted error to stderr with colors and returns a simple error for Cobra
func Error(title string, explanation string, suggestions []string) error {
	return ErrorWithContext(title, explanation, nil, suggestions)
}

// ErrorWithContext creates a formatted error with context details.
// Context keys are printed in sorted order.
func ErrorWithContext(title string, explanation string, context map[string]string, suggestions []string) error {
	_, ew := writers()

	red.Fprintf(ew, "%s\n\n", title)

	if explanation != "" {
		fmt.Fprintf(ew, "%s\n", explanation)
	}

	if len(context) > 0 {
		keys := make([]string, 0, len(context))
		for key := range context {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		fmt.Fprintf(ew, "\n")
		for _, key := range keys {
			fmt.Fprintf(ew, "  %s: %s\n", key, context[key])
		}
	}

	if len(suggestions) > 0 {
		fmt.Fprintf(ew, "\n")
		if len(suggestions) == 1 {
			fmt.Fprintf(ew, "%s\n", suggestions[0])
		} else {
			fmt.Fprintf(ew, "Either:\n")
			for i, suggestion := range suggestions {
				fmt.Fprintf(ew, "  %d. %s\n", i+1, suggestion)
			}
		}
	}

	// Return simple error for Cobra (won't be printed due to SilenceErrors)
	return &ReportedError{Title: title}
}

// ReportedError is returned by Error and ErrorWithContext after the full
// message has been printed. Its text is the title only.
type ReportedError struct {
	Title string
}

func (e *ReportedError) Error() string { return e.Title }

// IsReported reports whether err, or an error it wraps, was already printed.
func IsReported(err error) bool {
	var reported *ReportedError
	return errors.As(err, &reported)
}

// Step prints a step message with emphasis (used in multi-step operations)
func Step(format string, a ...any) {
	w, _ := writers()
	cyan.Fprintf(w, "→ %s", fmt.Sprintf(format, a...))
}

// Heading prints a bold section title followed by a newline.
func Heading(title string) {
	w, _ := writers()
	bold.Fprintln(w, title)
}

// LineState renders a production line state in its traffic-light color.
func LineState(s factoryapi.LineState) string {
	switch s {
	case factoryapi.LineOperational:
		return green.Sprint(string(s))
	case factoryapi.LineWarning:
		return yellow.Sprint(string(s))
	case factoryapi.LineDown:
		return red.Sprint(string(s))
	}
	return string(s)
}

// Println prints a plain message (for output that doesn't need coloring)
func Println(a ...any) {
	w, _ := writers()
	fmt.Fprintln(w, a...)
}

// Printf prints a plain formatted message (for output that doesn't need coloring)
func Printf(format string, a ...any) {
	w, _ := writers()
	fmt.Fprintf(w, format, a...)
}
