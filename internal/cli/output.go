package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings in the keyword explorer.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleHighlight renders co-occurrence bars.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleNumber renders keyword counts.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	styleOK      = lipgloss.NewStyle().Foreground(colorGreen)
	styleFailed  = lipgloss.NewStyle().Foreground(colorRed)
	styleWarn    = lipgloss.NewStyle().Foreground(colorYellow)
	styleInfo    = lipgloss.NewStyle().Foreground(colorGray)
	stylePath    = lipgloss.NewStyle().Foreground(colorWhite)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

const (
	markOK     = "✓"
	markFailed = "✗"
	markWarn   = "!"
	markInfo   = "›"
	markFile   = "→"
	separator  = " · "
)

// report writes command results to a command's output stream and stage
// progress to its error stream.
type report struct {
	w      io.Writer
	status io.Writer
}

func newReport(cmd *cobra.Command) *report {
	return &report{w: cmd.OutOrStdout(), status: cmd.ErrOrStderr()}
}

// stage runs fn behind a spinner on the status stream.
func (r *report) stage(ctx context.Context, label string, fn func() error) error {
	return runStage(ctx, r.status, label, fn)
}

func (r *report) mark(style lipgloss.Style, mark, format string, args []any) {
	fmt.Fprintln(r.w, style.Render(mark)+" "+fmt.Sprintf(format, args...))
}

func (r *report) success(format string, args ...any) { r.mark(styleOK, markOK, format, args) }
func (r *report) info(format string, args ...any)    { r.mark(styleInfo, markInfo, format, args) }

func (r *report) warn(format string, args ...any) {
	fmt.Fprintln(r.w, styleWarn.Render(markWarn)+" "+styleWarn.Render(fmt.Sprintf(format, args...)))
}

// detail prints an indented secondary line.
func (r *report) detail(format string, args ...any) {
	fmt.Fprintln(r.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func (r *report) file(path string) {
	fmt.Fprintln(r.w, "  "+StyleDim.Render(markFile)+" "+stylePath.Render(path))
}

// next suggests the command that continues the pipeline.
func (r *report) next(description, cmd string) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// truncation notes how many keywords were cut by the node cap.
func (r *report) truncation(shown, total int) {
	if total > shown {
		r.detail("Showing top %d of %d keywords", shown, total)
	}
}

// stageHit records whether a pipeline stage was served from the cache.
type stageHit struct {
	stage string
	hit   bool
}

// summary is the one-line description of a constellation printed after
// each command.
type summary struct {
	keywords int
	links    int
	steps    int
	stages   []stageHit
}

func (r *report) summary(s summary) {
	fmt.Fprintln(r.w, "  "+s.String())
}

// String joins the non-zero counts and stage cache states, for example
// "3 keywords · 3 links · 64 steps · layout cached".
func (s summary) String() string {
	var parts []string
	if s.keywords > 0 {
		parts = append(parts, StyleDim.Render(plural(s.keywords, "keyword")))
	}
	if s.links > 0 {
		parts = append(parts, StyleDim.Render(plural(s.links, "link")))
	}
	if s.steps > 0 {
		parts = append(parts, StyleDim.Render(plural(s.steps, "step")))
	}
	for _, st := range s.stages {
		state, style := "fresh", styleInfo
		if st.hit {
			state, style = "cached", styleOK
		}
		parts = append(parts, style.Render(st.stage+" "+state))
	}
	return strings.Join(parts, StyleDim.Render(separator))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
