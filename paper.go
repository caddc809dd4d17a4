package edurag

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Paper is a single academic paper entry. Year and Citations are kept as
// display strings so missing values can render as "-".
type Paper struct {
	Title     string
	Year      string
	Citations string
	DOIOrURL  string
}

// PaperFinder retrieves the most cited papers for a keyword.
type PaperFinder interface {
	// TopCited returns up to limit papers ordered by citation count.
	// Returns EINVALID if limit is not positive.
	TopCited(ctx context.Context, keyword string, limit int) ([]Paper, error)
}

// FormatPapersTable renders papers as an aligned Markdown table. Title and
// URL columns are left-aligned, year and citation counts right-aligned.
func FormatPapersTable(papers []Paper) string {
	headers := [4]string{"Title", "Year", "Citations", "DOI/URL"}

	if len(papers) == 0 {
		return "| " + strings.Join(headers[:], " | ") + " |\n" +
			"| --- | --- | --- | --- |\n" +
			"| No results | - | - | - |"
	}

	var widths [4]int
	for i, header := range headers {
		widths[i] = utf8.RuneCountInString(header)
	}

	rows := make([][4]string, 0, len(papers))
	for _, paper := range papers {
		row := [4]string{paper.Title, paper.Year, paper.Citations, paper.DOIOrURL}
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
		rows = append(rows, row)
	}

	formatRow := func(row [4]string) string {
		return "| " + padRight(row[0], widths[0]) +
			" | " + padLeft(row[1], widths[1]) +
			" | " + padLeft(row[2], widths[2]) +
			" | " + padRight(row[3], widths[3]) + " |"
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, formatRow(headers))

	var separators [4]string
	for i, width := range widths {
		if i == 1 || i == 2 {
			separators[i] = strings.Repeat("-", width-1) + ":"
		} else {
			separators[i] = ":" + strings.Repeat("-", width-1)
		}
	}
	lines = append(lines, "| "+strings.Join(separators[:], " | ")+" |")

	for _, row := range rows {
		lines = append(lines, formatRow(row))
	}

	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if pad := width - utf8.RuneCountInString(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

func padLeft(s string, width int) string {
	if pad := width - utf8.RuneCountInString(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}
