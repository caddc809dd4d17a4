package edurag_test

import (
	"strings"
	"testing"

	edurag "github.com/Leenamgyo/EduRAG"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPapersTable(t *testing.T) {
	t.Parallel()

	t.Run("renders a placeholder table when empty", func(t *testing.T) {
		t.Parallel()

		table := edurag.FormatPapersTable(nil)

		assert.Equal(t,
			"| Title | Year | Citations | DOI/URL |\n"+
				"| --- | --- | --- | --- |\n"+
				"| No results | - | - | - |",
			table)
	})

	t.Run("aligns columns across rows", func(t *testing.T) {
		t.Parallel()

		papers := []edurag.Paper{
			{Title: "Visible Learning", Year: "2008", Citations: "35000", DOIOrURL: "https://doi.org/10.4324/9780203887332"},
			{Title: "A Short One", Year: "-", Citations: "12", DOIOrURL: "-"},
		}

		table := edurag.FormatPapersTable(papers)
		lines := strings.Split(table, "\n")

		require.Len(t, lines, 4)
		for _, line := range lines {
			assert.Len(t, line, len(lines[0]))
			assert.True(t, strings.HasPrefix(line, "| "))
			assert.True(t, strings.HasSuffix(line, " |"))
		}

		assert.Contains(t, lines[0], "Title")
		assert.Contains(t, lines[2], "Visible Learning")
	})

	t.Run("marks year and citation columns right-aligned", func(t *testing.T) {
		t.Parallel()

		papers := []edurag.Paper{{Title: "T", Year: "2020", Citations: "5", DOIOrURL: "u"}}

		table := edurag.FormatPapersTable(papers)
		separator := strings.Split(table, "\n")[1]
		cells := strings.Split(strings.Trim(separator, "| "), " | ")

		require.Len(t, cells, 4)
		assert.True(t, strings.HasPrefix(cells[0], ":"))
		assert.True(t, strings.HasSuffix(cells[1], ":"))
		assert.True(t, strings.HasSuffix(cells[2], ":"))
		assert.True(t, strings.HasPrefix(cells[3], ":"))
	})

	t.Run("right-aligns numeric cells", func(t *testing.T) {
		t.Parallel()

		papers := []edurag.Paper{
			{Title: "Long Title Goes Here", Year: "2008", Citations: "35000", DOIOrURL: "url"},
			{Title: "Short", Year: "-", Citations: "12", DOIOrURL: "-"},
		}

		table := edurag.FormatPapersTable(papers)
		lines := strings.Split(table, "\n")

		assert.Regexp(t, `\| Short\s+\|`, lines[3])
		assert.Regexp(t, `\|\s{2,}12 \|`, lines[3])
	})
}
