package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/skybi/session-report/internal/archive"
	"github.com/skybi/session-report/internal/config"
	"github.com/skybi/session-report/internal/frontegg"
	"github.com/skybi/session-report/internal/logging"
	"github.com/skybi/session-report/internal/report"
	"github.com/skybi/session-report/internal/storage"
	"github.com/skybi/session-report/internal/storage/inmem"
	"github.com/skybi/session-report/internal/storage/postgres"
)

// OutputPathPrompt is shown when no output path is configured
const OutputPathPrompt = "Enter the full path where the CSV file should be saved (e.g., /Users/username/Downloads/user_sessions.csv): "

var (
	// ErrUnknownArchiveDriver is returned whenever an unsupported archive driver is configured
	ErrUnknownArchiveDriver = errors.New("unknown archive driver")

	// ErrMissingPostgresDSN is returned whenever the postgres archive driver is configured without a DSN
	ErrMissingPostgresDSN = errors.New("the postgres archive driver requires a DSN")
)

// App runs a single report generation
type App struct {
	Config *config.Config

	// Stdin and Stdout are used to prompt for the output path
	Stdin  io.Reader
	Stdout io.Writer

	// HTTPClient is used for all vendor API calls; http.DefaultClient if nil
	HTTPClient *http.Client

	// Storage overrides the archive driver selected by the configuration
	Storage storage.Driver
}

// Summary describes a finished run
type Summary struct {
	RunID      uuid.UUID
	OutputPath string
	Users      int
	Rows       int
	Skipped    int
	Complete   bool
}

// Run authenticates, collects all users, looks up their sessions and writes the report.
// The execution log is opened first and closed on every return path.
func (app *App) Run(ctx context.Context) (*Summary, error) {
	startedAt := time.Now()
	runID := uuid.New()

	level := zerolog.InfoLevel
	if !app.Config.IsEnvProduction() {
		level = zerolog.DebugLevel
	}
	executionLog, err := logging.OpenExecutionLog(app.Config.ExecutionLog, runID.String(), level)
	if err != nil {
		return nil, fmt.Errorf("opening execution log: %w", err)
	}
	defer executionLog.Close()
	logger := executionLog.Logger
	logger.Info().Msg("starting report run")

	outputPath, err := app.outputPath()
	if err != nil {
		return nil, err
	}
	if err := report.ValidateOutputPath(outputPath); err != nil {
		logger.Error().Err(err).Str("path", outputPath).Msg("invalid output path")
		return nil, err
	}

	baseURL, err := app.Config.APIBaseURL()
	if err != nil {
		return nil, err
	}
	var opts []frontegg.Option
	if app.HTTPClient != nil {
		opts = append(opts, frontegg.WithHTTPClient(app.HTTPClient))
	}
	client := frontegg.NewClient(baseURL, logger, opts...)

	session, err := client.Authenticate(ctx, app.Config.ClientID, app.Config.Secret)
	if err != nil {
		logger.Error().Err(err).Msg("authentication failed")
		return nil, err
	}

	users, err := session.ListUsers(ctx, frontegg.ListOptions{
		PageSize:          app.Config.PageSize,
		IncludeSubTenants: app.Config.IncludeSubTenants,
	})
	if err != nil {
		logger.Error().Err(err).Msg("listing users failed")
		return nil, err
	}
	if !users.Complete {
		logger.Warn().Int("count", users.Count).Msg("user listing stopped early; the report only covers the users collected so far")
	}
	logger.Info().Int("count", users.Count).Int("pages", users.Pages).Msg("collected users")

	sink, err := report.Open(outputPath)
	if err != nil {
		return nil, err
	}
	progress := &report.Progress{}
	stopProgress := progress.Track(app.Config.ProgressInterval, logger)
	generator := &report.Generator{
		Sessions: session,
		Logger:   logger,
		Progress: progress,
	}
	rows, stats, err := generator.Generate(ctx, users.Items, sink)
	stopProgress()
	if err != nil {
		sink.Close()
		logger.Error().Err(err).Msg("generating the report failed")
		return nil, err
	}
	if err := sink.Close(); err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:      runID,
		OutputPath: outputPath,
		Users:      stats.Users,
		Rows:       stats.Rows,
		Skipped:    stats.Skipped,
		Complete:   users.Complete,
	}

	if err := app.archive(ctx, logger, &archive.Run{
		ID:         runID,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		BaseURL:    baseURL,
		Complete:   users.Complete,
		UserCount:  users.Count,
		Rows:       rows,
	}); err != nil {
		logger.Error().Err(err).Msg("archiving the run failed")
		return summary, err
	}

	logger.Info().Str("path", outputPath).Int("rows", stats.Rows).Msg("report written")
	return summary, nil
}

func (app *App) outputPath() (string, error) {
	if app.Config.OutputPath != "" {
		return app.Config.OutputPath, nil
	}
	if app.Stdout != nil {
		fmt.Fprint(app.Stdout, OutputPathPrompt)
	}
	if app.Stdin == nil {
		return "", report.ErrEmptyPath
	}
	line, err := bufio.NewReader(app.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (app *App) archive(ctx context.Context, logger zerolog.Logger, run *archive.Run) error {
	driver := app.Storage
	if driver == nil {
		created, err := NewStorage(app.Config)
		if err != nil {
			return err
		}
		if created == nil {
			return nil
		}
		if err := created.Initialize(ctx); err != nil {
			return err
		}
		defer created.Close()
		driver = created
	}

	if err := driver.Runs().Create(ctx, run); err != nil {
		return err
	}
	logger.Info().Str("run_id", run.ID.String()).Msg("archived run")
	return nil
}

// NewStorage creates the (uninitialized) archive driver selected by the configuration.
// No driver is returned if archiving is disabled.
func NewStorage(cfg *config.Config) (storage.Driver, error) {
	switch strings.ToLower(cfg.ArchiveDriver) {
	case "", "none":
		return nil, nil
	case "inmem":
		return inmem.New(), nil
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, ErrMissingPostgresDSN
		}
		return postgres.New(cfg.PostgresDSN), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownArchiveDriver, cfg.ArchiveDriver)
	}
}
