// Package output renders one-shot reports of a bees status directory.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/danpilch/bees-exporter/pkg/status"
)

// Format represents the output format type.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatTSV   Format = "tsv"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatTSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, json or tsv)", s)
}

// Formatter handles output formatting.
type Formatter struct {
	format Format
	writer io.Writer
}

// NewFormatter creates a new formatter.
func NewFormatter(format Format, writer io.Writer) *Formatter {
	return &Formatter{
		format: format,
		writer: writer,
	}
}

// Render outputs the report in the configured format.
func (f *Formatter) Render(r *Report) error {
	switch f.format {
	case FormatJSON:
		return f.renderJSON(r)
	case FormatTSV:
		return f.renderTSV(r)
	default:
		return f.renderTable(r)
	}
}

func (f *Formatter) renderJSON(r *Report) error {
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

var statusStyles = map[Status]lipgloss.Style{
	StatusOK:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	StatusSkipped: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
}

func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func (f *Formatter) renderTable(r *Report) error {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)
	subtleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	fmt.Fprintln(f.writer, titleStyle.Render("bees status: "+r.Dir))
	fmt.Fprintln(f.writer, strings.Repeat("═", 60))
	fmt.Fprintln(f.writer)

	if len(r.Filesystems) > 0 {
		rows := make([][]string, len(r.Filesystems))
		for i, fs := range r.Filesystems {
			rows[i] = []string{
				fs.UUID,
				strconv.Itoa(fs.Stats),
				strconv.Itoa(len(fs.Progress)),
				strconv.Itoa(fs.Errors()),
				strconv.Itoa(fs.Warnings()),
				strconv.Itoa(len(fs.Sanity)),
				statusStyles[fs.Status].Render(strings.ToUpper(string(fs.Status))),
			}
		}
		fmt.Fprintln(f.writer, newTable("UUID", "STATS", "ROWS", "ERRORS", "WARNINGS", "SANITY", "STATUS").Rows(rows...))
	}

	for _, fs := range r.Filesystems {
		if len(fs.Progress) == 0 {
			continue
		}
		fmt.Fprintln(f.writer)
		fmt.Fprintln(f.writer, subtleStyle.Render("Progress "+fs.UUID))

		rows := make([][]string, len(fs.Progress))
		for i, row := range fs.Progress {
			rows[i] = []string{
				string(row.ExtentSize),
				formatBytes(row.DataSize),
				row.Point.String(),
				strconv.FormatUint(row.GenMin, 10),
				strconv.FormatUint(row.GenMax, 10),
			}
		}
		fmt.Fprintln(f.writer, newTable("EXTSZ", "DATASZ", "POINT", "GEN_MIN", "GEN_MAX").Rows(rows...))
	}

	f.renderFindings(r)
	fmt.Fprintln(f.writer)
	f.renderSummary(r.Summary)

	return nil
}

// renderFindings lists issues, sanity failures and skipped files.
func (f *Formatter) renderFindings(r *Report) {
	var lines []string
	for _, fs := range r.Filesystems {
		for _, issue := range fs.Issues {
			if issue.Severity == status.SeverityDebug {
				continue
			}
			loc := issue.Section.String()
			if issue.Line > 0 {
				loc = fmt.Sprintf("%s line %d", loc, issue.Line)
			}
			lines = append(lines, fmt.Sprintf("[%s] %s %s: %s",
				strings.ToUpper(string(issue.Severity)), fs.UUID, loc, issue.Reason))
		}
		for _, res := range fs.Sanity {
			lines = append(lines, fmt.Sprintf("[SANITY] %s %s: %s", fs.UUID, res.Check, res.Details))
		}
	}
	for _, skip := range r.Skips {
		lines = append(lines, fmt.Sprintf("[SKIPPED] %s: %s", skip.Path, skip.Reason))
	}

	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(f.writer)
	for _, line := range lines {
		fmt.Fprintln(f.writer, line)
	}
}

func (f *Formatter) renderSummary(s Summary) {
	parts := []string{}

	if s.Skipped > 0 {
		parts = append(parts, statusStyles[StatusSkipped].Render(fmt.Sprintf("%d skipped", s.Skipped)))
	}
	if s.Errors > 0 {
		parts = append(parts, statusStyles[StatusWarning].Render(fmt.Sprintf("%d errors", s.Errors)))
	}
	if s.Warnings > 0 {
		parts = append(parts, statusStyles[StatusWarning].Render(fmt.Sprintf("%d warnings", s.Warnings)))
	}
	if s.SanityFailed > 0 {
		parts = append(parts, statusStyles[StatusWarning].Render(fmt.Sprintf("%d sanity failures", s.SanityFailed)))
	}

	switch {
	case s.Filesystems == 0:
		fmt.Fprintln(f.writer, statusStyles[StatusSkipped].Render("No status files found"))
	case len(parts) == 0:
		fmt.Fprintln(f.writer, statusStyles[StatusOK].Render(fmt.Sprintf("%d filesystems, all clean", s.Filesystems)))
	default:
		fmt.Fprintf(f.writer, "%d filesystems: %s\n", s.Filesystems, strings.Join(parts, ", "))
	}
}

// renderTSV outputs one line per status file as tab-separated values.
func (f *Formatter) renderTSV(r *Report) error {
	fmt.Fprintln(f.writer, "SOURCE\tSTATUS\tSTATS\tROWS\tERRORS\tWARNINGS\tSANITY_FAILED\tDETAILS")

	for _, fs := range r.Filesystems {
		var details []string
		for _, res := range fs.Sanity {
			details = append(details, res.Check+": "+res.Details)
		}
		fmt.Fprintf(f.writer, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			fs.UUID, fs.Status, fs.Stats, len(fs.Progress),
			fs.Errors(), fs.Warnings(), len(fs.Sanity), strings.Join(details, "; "))
	}
	for _, skip := range r.Skips {
		fmt.Fprintf(f.writer, "%s\t%s\t0\t0\t0\t0\t0\t%s\n", skip.Path, StatusSkipped, skip.Reason)
	}

	return nil
}

// formatBytes formats bytes into human-readable format.
func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
