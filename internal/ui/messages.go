package ui

import (
	"fmt"

	"github.com/fatih/color"
)

// ShowCommand displays the proposed command with the arrow marker
func ShowCommand(command string) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Printf("→ %s\n", command)
}

// ShowSuccess displays a success message
func ShowSuccess(message string) {
	green := color.New(color.FgGreen, color.Bold)
	green.Printf("✓ %s\n", message)
}

// ShowError displays an error message
func ShowError(message string) {
	red := color.New(color.FgRed, color.Bold)
	red.Printf("✗ %s\n", message)
}

// ShowInfo displays an info message
func ShowInfo(message string) {
	blue := color.New(color.FgBlue)
	blue.Println(message)
}

// ShowWarning displays a warning message
func ShowWarning(message string) {
	yellow := color.New(color.FgYellow)
	yellow.Printf("! %s\n", message)
}

// Plain prints an uncolored line
func Plain(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}
