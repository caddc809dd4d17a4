package main

import (
	"fmt"

	edurag "github.com/Leenamgyo/EduRAG"
)

// Run executes the top-cited command.
func (c *TopCitedCmd) Run(deps *Dependencies) error {
	papers, err := deps.Papers.TopCited(deps.Ctx, c.Keyword, c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", edurag.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, edurag.FormatPapersTable(papers))
	return nil
}
