// Package term holds the terminal presentation helpers for the CLI:
// color styles, the batch progress bar, and the result summary table.
package term

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"

	"phoneverify/verify"
)

// Shared color styles for CLI output.
var (
	Bold   = color.New(color.Bold)
	Green  = color.New(color.FgGreen)
	Red    = color.New(color.FgRed)
	Yellow = color.New(color.FgYellow)
)

// PrintLn prints a line in the given style, ignoring write errors.
func PrintLn(c *color.Color, a ...any) {
	_, _ = c.Println(a...)
}

// Printf prints formatted text in the given style, ignoring write errors.
func Printf(c *color.Color, format string, a ...any) {
	_, _ = c.Printf(format, a...)
}

// ProgressBar builds the progress bar shown while a batch runs. It
// writes to stderr so piping stdout keeps the results clean.
func ProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// Quiet detects CI environments where decorative output should be
// suppressed.
func Quiet() bool {
	ciEnvVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "CIRCLECI", "JENKINS_HOME"}
	for _, env := range ciEnvVars {
		value := os.Getenv(env)
		if value == "true" || value == "1" {
			return true
		}
	}
	return false
}

// RenderSummary writes one table row per identifier, aligned with the
// batch results. It returns the number of valid identifiers.
func RenderSummary(w io.Writer, numbers []string, results []verify.Result) (int, error) {
	table := tablewriter.NewWriter(w)
	table.Header("Phone", "Valid", "Location")

	valid := 0
	for i, number := range numbers {
		res := results[i]
		cell := Red.Sprint("no")
		if res.Valid {
			cell = Green.Sprint("yes")
			valid++
		}
		_ = table.Append(number, cell, res.Location)
	}

	if err := table.Render(); err != nil {
		return valid, fmt.Errorf("rendering summary: %w", err)
	}
	return valid, nil
}
