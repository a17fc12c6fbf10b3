package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"genrecheck/internal/genre"
	"genrecheck/internal/shuffle"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

const (
	msgPerfectMatch  = "It's a perfect match. The LLM works!!!"
	msgPartialMatch  = "It's not you it's me. The LLM made some bad decisions."
	msgDetected      = "Successfully Detected Genres"
	msgNoEligible    = "No movies with summaries and genres available."
	chartTitle       = "Genre Detection Score"
	chartAxisLabel   = "Count"
	chartMaxBarWidth = 40
	chartUnitWidth   = 4
)

// chartBar is one bar of the detection score chart.
type chartBar struct {
	label  string
	value  int
	colors text.Colors
}

// Purple, black and light green, with black shown as dark gray so it stays
// visible on dark terminals.
func chartBars(counts genre.Counts) []chartBar {
	return []chartBar{
		{label: "Database Genres", value: counts.Database, colors: text.Colors{text.FgMagenta}},
		{label: "LLM Genres", value: counts.Identified, colors: text.Colors{text.FgHiBlack}},
		{label: "Matching Genres", value: counts.Matching, colors: text.Colors{text.FgHiGreen}},
	}
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// displayGenres title-cases normalized genre names for output.
func displayGenres(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	caser := cases.Title(language.Und)
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, caser.String(v))
	}
	return strings.Join(out, ", ")
}

func verdictLine(result genre.Result, colorize bool) string {
	if result.PerfectMatch() {
		return renderStatusLine("Verdict", statusOK, msgPerfectMatch, colorize)
	}
	return renderStatusLine("Verdict", statusWarn, msgPartialMatch, colorize)
}

// renderChart draws the three counts as horizontal bars scaled to the widest.
func renderChart(counts genre.Counts, colorize bool) []string {
	bars := chartBars(counts)
	maxValue := 0
	labelWidth := len(chartAxisLabel)
	for _, bar := range bars {
		if bar.value > maxValue {
			maxValue = bar.value
		}
		if len(bar.label) > labelWidth {
			labelWidth = len(bar.label)
		}
	}
	unit := chartUnitWidth
	if maxValue*unit > chartMaxBarWidth {
		unit = 0
	}

	lines := []string{statusIndent + chartTitle}
	for _, bar := range bars {
		width := bar.value * unit
		if unit == 0 && maxValue > 0 {
			width = bar.value * chartMaxBarWidth / maxValue
		}
		if width == 0 && bar.value > 0 {
			width = 1
		}
		block := strings.Repeat("█", width)
		if colorize && block != "" {
			block = bar.colors.Sprint(block)
		}
		line := fmt.Sprintf("%s%-*s │%s %d", statusIndent, labelWidth, bar.label, block, bar.value)
		lines = append(lines, line)
	}
	lines = append(lines, fmt.Sprintf("%s%-*s └ %s", statusIndent, labelWidth, "", chartAxisLabel))
	return lines
}

func renderShuffleOutcome(w io.Writer, outcome *shuffle.Outcome, colorize bool) {
	for _, line := range renderSectionHeader(outcome.Movie.Title, colorize) {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, outcome.Summary)
	fmt.Fprintln(w)

	pairs := [][]string{
		{"Genres", strings.Join(outcome.DatabaseGenres, ", ")},
		{"Genre by LLM", outcome.LLMResponse},
	}
	if outcome.Model != "" {
		pairs = append(pairs, []string{"Model", outcome.Model})
	}
	fmt.Fprintln(w, renderKeyValues(pairs, colorize))
	fmt.Fprintln(w)

	renderEvaluation(w, outcome.Result, colorize)
}

func renderEvaluation(w io.Writer, result genre.Result, colorize bool) {
	if result.Matching.Len() > 0 {
		for _, line := range renderSectionHeader(msgDetected, colorize) {
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w, displayGenres(result.Matching.Sorted()))
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, verdictLine(result, colorize))
	fmt.Fprintln(w)
	for _, line := range renderChart(result.Counts, colorize) {
		fmt.Fprintln(w, line)
	}
}
