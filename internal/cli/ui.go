package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
	"github.com/Mgabr90/bpmn-to-visio/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleKey = lipgloss.NewStyle().Foreground(colorGray).Width(16)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints conversion statistics on a single line.
func printStats(w io.Writer, s pipeline.Stats, cached bool) {
	var parts []string
	parts = append(parts, fmt.Sprintf("%d shapes", s.Shapes))
	parts = append(parts, fmt.Sprintf("%d connectors", s.Connectors))
	if n := s.SkippedShapes + s.SkippedFlows; n > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", n))
	}
	if s.PageWidth > 0 {
		parts = append(parts, fmt.Sprintf("%.2f×%.2f in", s.PageWidth, s.PageHeight))
	}

	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	line += StyleDim.Render(" · ") + statusStyle.Render(status)
	fmt.Fprintln(w, line)
}

// printFileResult prints the outcome of one converted file.
func printFileResult(w io.Writer, fr pipeline.FileResult) {
	if fr.Err != nil {
		printError(w, "%s: %s", fr.Input, errors.UserMessage(fr.Err))
		return
	}
	printSuccess(w, "%s", fr.Input)
	printStats(w, fr.Stats, fr.CacheHit)
	for _, out := range fr.Outputs {
		printFile(w, out)
	}
	for _, warn := range fr.Stats.Warnings {
		printDetail(w, "warning: %s", warn)
	}
}

// printSummary prints the totals of a batch run and lists its failures.
func printSummary(w io.Writer, b pipeline.BatchResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render("Summary"))
	printKeyValue(w, "Files", StyleNumber.Render(fmt.Sprint(len(b.Files))))
	printKeyValue(w, "Succeeded", styleIconSuccess.Render(fmt.Sprint(b.Succeeded)))
	if b.Failed > 0 {
		printKeyValue(w, "Failed", styleIconError.Render(fmt.Sprint(b.Failed)))
	}
	printKeyValue(w, "Duration", b.Duration.Round(time.Millisecond).String())

	failures := b.Failures()
	if len(failures) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, f := range failures {
		printError(w, "%s", f.Input)
		printDetail(w, "%s", strings.TrimSpace(errors.UserMessage(f.Err)))
	}
}
