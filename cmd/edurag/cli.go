package main

import (
	"context"
	"io"
	"log/slog"

	edurag "github.com/Leenamgyo/EduRAG"
	"github.com/Leenamgyo/EduRAG/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Search runs the full pipeline for one query.
	Search crawl.SearchFunc

	// Queue feeds the crawl command's worker pool.
	Queue edurag.JobQueue

	// Store uploads agent chunk results. Wired only when storing is
	// requested.
	Store edurag.ChunkStore

	// Papers backs the top-cited command.
	Papers edurag.PaperFinder
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Debug    bool   `default:"true" negatable:"" env:"EDURAG_DEBUG" help:"Enable verbose debug logging"`
	RunlogDB string `env:"EDURAG_DB" help:"SQLite run log path (PostgreSQL is used instead when EDURAG_DATABASE_URL is set)"`
	NoRunlog bool   `help:"Disable run logging"`

	Search   SearchCmd   `cmd:"" help:"Run a search pipeline for a single query"`
	Crawl    CrawlCmd    `cmd:"" help:"Crawl a set of seed queries with related-query expansion"`
	TopCited TopCitedCmd `cmd:"" name:"top-cited" help:"List the most cited papers for a keyword"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query           string `arg:"" help:"Seed query string that drives the search plan"`
	RelatedLimit    int    `default:"5" env:"EDURAG_RELATED_LIMIT" help:"Number of related queries to request"`
	CrawlLimit      int    `default:"5" env:"EDURAG_CRAWL_LIMIT" help:"Maximum number of URLs to extract"`
	ResultsPerQuery int    `default:"5" env:"EDURAG_RESULTS_PER_QUERY" help:"Number of provider results kept per query"`
	ChunkSize       int    `default:"500" env:"EDURAG_CHUNK_SIZE" help:"Character count for each extracted chunk"`
	Model           string `env:"EDURAG_AI_MODEL" help:"Gemini model for related query generation"`
	Prompt          string `env:"EDURAG_AI_PROMPT" help:"Override prompt template for related query generation"`
	Store           bool   `default:"true" negatable:"" env:"EDURAG_STORE" help:"Store the resulting chunks in MinIO"`
	ObjectName      string `help:"Custom object name used when uploading to MinIO"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Seeds           []string `arg:"" help:"Seed queries to schedule"`
	Project         string   `short:"p" help:"Project name stamped onto each job"`
	Workers         int      `short:"w" default:"2" help:"Number of workers in the pool"`
	MaxJobs         int      `help:"Hard cap on processed jobs (0 = unlimited)"`
	MaxRetries      int      `default:"2" help:"Requeue budget for failed jobs"`
	NoExpand        bool     `help:"Do not schedule discovered related queries"`
	Redis           string   `env:"EDURAG_REDIS_ADDR" help:"Redis address backing a shared job queue (in-memory when empty)"`
	RelatedLimit    int      `default:"5" env:"EDURAG_RELATED_LIMIT" help:"Number of related queries to request per job"`
	CrawlLimit      int      `default:"5" env:"EDURAG_CRAWL_LIMIT" help:"Maximum number of URLs to extract per job"`
	ResultsPerQuery int      `default:"5" env:"EDURAG_RESULTS_PER_QUERY" help:"Number of provider results kept per query"`
	ChunkSize       int      `default:"500" env:"EDURAG_CHUNK_SIZE" help:"Character count for each extracted chunk"`
}

// TopCitedCmd is the "top-cited" subcommand.
type TopCitedCmd struct {
	Keyword  string `arg:"" help:"Search keyword matched against paper titles"`
	Limit    int    `default:"5" help:"Maximum number of papers to list"`
	NoVerify bool   `help:"Skip the Semantic Scholar citation cross-check"`
}
