package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"google.golang.org/genai"

	edurag "github.com/Leenamgyo/EduRAG"
	"github.com/Leenamgyo/EduRAG/crawl"
	"github.com/Leenamgyo/EduRAG/gemini"
	"github.com/Leenamgyo/EduRAG/minio"
	"github.com/Leenamgyo/EduRAG/openalex"
	"github.com/Leenamgyo/EduRAG/postgres"
	eduredis "github.com/Leenamgyo/EduRAG/redis"
	"github.com/Leenamgyo/EduRAG/search"
	eduslog "github.com/Leenamgyo/EduRAG/slog"
	"github.com/Leenamgyo/EduRAG/sqlite"
	"github.com/Leenamgyo/EduRAG/tavily"
	"github.com/Leenamgyo/EduRAG/translate"
)

func main() {
	ctx := context.Background()

	m := NewMain()
	defer m.Close()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database path. Set before calling Run().
	DBPath string

	// Resources opened during Run, closed by Close.
	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	for _, closer := range m.closers {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("edurag"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'edurag --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	if cli.RunlogDB != "" {
		m.DBPath = cli.RunlogDB
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if cmd == "search" || cmd == "crawl" {
		runner, err := m.buildRunner(ctx, cli, deps.Logger, stderr)
		if err != nil {
			return err
		}
		deps.Search = runner.Run
	}

	if cmd == "crawl" {
		deps.Queue = m.buildQueue(cli.Crawl.Redis, deps.Logger)
	}

	if cmd == "search" && cli.Search.Store {
		store, err := minio.NewChunkStore(minio.SettingsFromEnvironment())
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Set EDURAG_MINIO_ENDPOINT, EDURAG_MINIO_ACCESS_KEY, and EDURAG_MINIO_SECRET_KEY")
			return fmt.Errorf("failed to configure object storage: %w", err)
		}
		deps.Store = store
	}

	if cmd == "top-cited" {
		papers := openalex.NewClient()
		if cli.TopCited.NoVerify {
			papers.Verify = false
		}
		papers.Logger = deps.Logger
		deps.Papers = papers
	}

	return kongCtx.Run(deps)
}

// buildRunner wires the search pipeline from environment configuration.
// A missing search provider key fails here, before any queue work begins;
// a missing Gemini key only disables generative suggestions, matching the
// degraded mode the pipeline already supports.
func (m *Main) buildRunner(ctx context.Context, cli *CLI, logger *slog.Logger, stderr io.Writer) (*search.Runner, error) {
	apiKey := os.Getenv("TAVILY_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "TAVILY_API_KEY environment variable not set. Get an API key at https://tavily.com")
		return nil, edurag.Errorf(edurag.EINVALID, "TAVILY_API_KEY not set")
	}

	provider, err := tavily.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create search provider: %w", err)
	}

	runner := &search.Runner{
		Searcher:   eduslog.NewLoggingSearcher(provider, logger),
		Extractor:  eduslog.NewLoggingExtractor(provider, logger),
		Translator: translate.NewClient(),
		Logger:     logger,
	}

	if geminiKey := os.Getenv("GEMINI_API_KEY"); geminiKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  geminiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		runner.Suggester = gemini.NewSuggester(client)
	} else {
		logger.Warn("GEMINI_API_KEY not set, related queries use provider heuristics only")
	}

	if !cli.NoRunlog {
		runLog, err := m.buildRunLog(stderr)
		if err != nil {
			return nil, err
		}
		runner.RunLog = runLog
	}

	return runner, nil
}

// buildRunLog opens the configured run log: PostgreSQL when a DSN is set,
// a local SQLite file otherwise.
func (m *Main) buildRunLog(stderr io.Writer) (edurag.RunLog, error) {
	dsn := os.Getenv("EDURAG_DATABASE_URL")
	if dsn == "" {
		dsn = os.Getenv("MINER_DATABASE_URL")
	}
	if dsn != "" {
		db := postgres.NewDB(dsn)
		if err := db.Open(); err != nil {
			fmt.Fprintln(stderr, "Hint: Check EDURAG_DATABASE_URL points at a reachable PostgreSQL instance")
			return nil, fmt.Errorf("failed to open run log database: %w", err)
		}
		m.closers = append(m.closers, db)
		return postgres.NewRunLog(db), nil
	}

	db := sqlite.NewDB(m.DBPath)
	if err := db.Open(); err != nil {
		fmt.Fprintln(stderr, "Hint: Set EDURAG_DB to use a different database path")
		return nil, fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	m.closers = append(m.closers, db)
	return sqlite.NewRunLog(db), nil
}

// buildQueue picks the job queue backend: Redis when an address is
// configured, the in-memory queue otherwise.
func (m *Main) buildQueue(redisAddr string, logger *slog.Logger) edurag.JobQueue {
	if redisAddr != "" {
		queue := eduredis.NewJobQueue(redisAddr)
		queue.Logger = logger
		m.closers = append(m.closers, queue)
		return eduslog.NewLoggingQueue(queue, logger)
	}
	return eduslog.NewLoggingQueue(crawl.NewMemoryQueue(), logger)
}

func defaultDBPath() string {
	if path := os.Getenv("EDURAG_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "edurag.db"
	}
	dir := filepath.Join(home, ".edurag")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "edurag.db")
}
