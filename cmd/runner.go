package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackbrowse/internal/browse"
	"github.com/desertthunder/trackbrowse/internal/repositories"
	"github.com/desertthunder/trackbrowse/internal/services"
	"github.com/desertthunder/trackbrowse/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    *services.CatalogService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	db         *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Catalog    *services.CatalogService
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Config.Catalog.Timeout()}
	}

	r := &Runner{
		config:     opts.Config,
		configPath: defaultConfigPath,
		catalog:    opts.Catalog,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	if r.catalog == nil {
		r.catalog = r.newCatalog(context.Background())
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		tracksCommand, genresCommand, invoiceCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Configure loads the config file named by --config, falling back to defaults when it does not exist,
// and rebuilds the catalog client from it.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	r.configPath = cmd.String("config")
	config, err := shared.LoadConfig(r.configPath)
	switch {
	case errors.Is(err, shared.ErrMissingConfig):
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		config = shared.DefaultConfig()
	case err != nil:
		return ctx, err
	}

	if err := config.Validate(); err != nil {
		return ctx, err
	}

	r.config = config
	r.httpClient.Timeout = config.Catalog.Timeout()
	r.catalog = r.newCatalog(ctx)
	return ctx, nil
}

func (r *Runner) newCatalog(ctx context.Context) *services.CatalogService {
	return services.NewCatalogService(services.CatalogOpts{
		BaseURL:     r.config.Catalog.BaseURL,
		HTTPClient:  r.httpClient,
		TokenSource: services.TokenSource(context.WithValue(ctx, oauth2.HTTPClient, r.httpClient), r.config.Credentials),
		RateLimit:   r.config.Catalog.RateLimit,
		Logger:      r.logger,
	})
}

// newSession creates a browse session over the runner's catalog.
func (r *Runner) newSession(invoiced browse.InvoicedItems, opts browse.Options) *browse.Session {
	opts.PageSize = r.config.Catalog.PageSize
	opts.Debounce = r.config.Catalog.Debounce()
	if opts.Debounce == 0 {
		opts.Debounce = -1
	}
	opts.Identity = r.catalog
	opts.Invoiced = invoiced
	if opts.Logger == nil {
		opts.Logger = r.logger
	}
	return browse.New(r.catalog, opts)
}

// invoices opens the database on first use and returns the invoice repository.
func (r *Runner) invoices() (*repositories.InvoiceRepository, error) {
	if r.db == nil {
		db, err := shared.OpenDatabase(r.config.Database)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
		}
		r.db = db
	}
	return repositories.NewInvoiceRepository(r.db), nil
}

// Close releases the database, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// trackIDArg parses the first positional argument as a catalog track ID.
func trackIDArg(cmd *cli.Command) (int, error) {
	arg := cmd.Args().First()
	if arg == "" {
		return 0, fmt.Errorf("%w: track ID", shared.ErrMissingArgument)
	}
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: track ID must be a positive integer, got %q", shared.ErrInvalidArgument, arg)
	}
	return id, nil
}
