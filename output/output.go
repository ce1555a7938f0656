// Package output provides beautiful, styled terminal output for CLI tools.
//
// Functions use lipgloss for styling but abstract away the details from callers.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	out io.Writer = os.Stdout
)

// SetOutput redirects styled messages to w and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := out
	out = w
	return prev
}

// Writer returns the writer styled messages go to.
func Writer() io.Writer {
	return out
}

// Success prints a success message with 🦀 emoji and green color.
// Use this for completed operations.
//
// Example:
//
//	output.Success("Created workspace: demo")
func Success(msg string) {
	fmt.Fprintln(out, successStyle.Render("🦀 "+msg))
}

// Error prints an error message with ❌ emoji and red color.
// Use this for failures that need user attention.
func Error(msg string) {
	fmt.Fprintln(out, errorStyle.Render("❌ "+msg))
}

// Warning prints a warning in yellow.
func Warning(msg string) {
	fmt.Fprintln(out, warningStyle.Render("⚠️  "+msg))
}

// Info prints an informational message with ℹ️ emoji and cyan color.
//
// Example:
//
//	output.Info("Next steps:")
func Info(msg string) {
	fmt.Fprintln(out, infoStyle.Render("ℹ️  "+msg))
}

// Step prints an indented step message in gray.
// Use this for actionable next steps or sub-items.
//
// Example:
//
//	output.Step("cd demo")
//	output.Step("cargo build")
func Step(msg string) {
	fmt.Fprintln(out, stepStyle.Render("   "+msg))
}
