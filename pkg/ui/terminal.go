package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Banner is printed at the top of interactive commands
const Banner = `
  ┌─┐┌─┐┬  ┬  ┌─┐┬ ┬┬ ┬┌─┐┌┬┐┌─┐┬ ┬
  ├┤ │ ││  │  │ ││││││││├─┤ │ │  ├─┤
  └  └─┘┴─┘┴─┘└─┘└┴┘└┴┘┴ ┴ ┴ └─┘┴ ┴
  twitch follower tracker
`

// Output is where the Print helpers write
var Output io.Writer = os.Stdout

// colorEnabled is true when stdout is a terminal and NO_COLOR is unset
var colorEnabled = os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(os.Stdout.Fd()))

// SetColor forces colors on or off
func SetColor(enabled bool) {
	colorEnabled = enabled
}

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		if !colorEnabled {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

// PrintBanner prints the banner
func PrintBanner() {
	fmt.Fprint(Output, Cyan(Banner))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(Output, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(Output, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	fmt.Fprintln(Output, Green(msg))
}

// PrintInfo prints a label and value
func PrintInfo(label string, value string) {
	fmt.Fprintf(Output, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(Output, Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(Output, Yellow(msg))
	}
}

// PrintList prints a heading and one marked line per name
func PrintList(heading, marker string, color func(string) string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(Output, "%s (%d)\n", Magenta(heading), len(names))
	for _, n := range names {
		fmt.Fprintf(Output, "  %s %s\n", color(marker), n)
	}
}
