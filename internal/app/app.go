package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/spf13/afero"
	"github.com/wisp167/BookSales/internal/config"
	"github.com/wisp167/BookSales/internal/data"
	"github.com/wisp167/BookSales/internal/fixture"
	"github.com/wisp167/BookSales/internal/metrics"
	"github.com/wisp167/BookSales/internal/report"
)

const version = "1.0.0"

var ErrStage = errors.New("operation out of order")

// Stage is the position of an application in its one-way lifecycle.
type Stage int

const (
	StageIdle Stage = iota
	StageSchemaReady
	StageDataLoaded
	StageQueryExecuted
	StageClosed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageSchemaReady:
		return "schema-ready"
	case StageDataLoaded:
		return "data-loaded"
	case StageQueryExecuted:
		return "query-executed"
	case StageClosed:
		return "closed"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

type Application struct {
	config  config.Config
	logger  *log.Logger
	db      *sql.DB
	models  data.Models
	source  *fixture.Source
	metrics *metrics.Metrics
	stage   Stage
	server  *http.Server
}

type Option func(*Application)

// WithSource replaces the fixture source, which defaults to the OS file system.
func WithSource(s *fixture.Source) Option {
	return func(app *Application) { app.source = s }
}

// New opens the database described by cfg and wraps it in an Application.
// The caller owns the result and must Close it.
func New(cfg config.Config, logger *log.Logger, opts ...Option) (*Application, error) {
	db, err := OpenDB(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	app, err := NewWithDB(cfg, logger, db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Printf("database connection established (%s)", cfg.DB.Driver)
	return app, nil
}

// NewWithDB wraps an already open handle. The Application takes ownership of db.
func NewWithDB(cfg config.Config, logger *log.Logger, db *sql.DB, opts ...Option) (*Application, error) {
	dialect, err := data.DialectFor(cfg.DB.Driver)
	if err != nil {
		return nil, err
	}
	app := &Application{
		config:  cfg,
		logger:  logger,
		db:      db,
		models:  data.NewModels(db, dialect),
		source:  fixture.NewSource(afero.NewOsFs()),
		metrics: metrics.New(),
	}
	for _, opt := range opts {
		opt(app)
	}
	return app, nil
}

func (app *Application) Stage() Stage {
	return app.stage
}

func (app *Application) Models() data.Models {
	return app.models
}

func (app *Application) advance(op string, from, to Stage) error {
	if app.stage != from {
		return fmt.Errorf("%w: %s needs stage %s, application is %s", ErrStage, op, from, app.stage)
	}
	app.stage = to
	return nil
}

func (app *Application) require(op string, at Stage) error {
	if app.stage != at {
		return fmt.Errorf("%w: %s needs stage %s, application is %s", ErrStage, op, at, app.stage)
	}
	return nil
}

// ResetSchema drops and recreates every table.
func (app *Application) ResetSchema(ctx context.Context) error {
	if err := app.require("reset schema", StageIdle); err != nil {
		return err
	}
	if err := app.models.Schema.Reset(ctx); err != nil {
		return err
	}
	app.logger.Printf("schema recreated: %d tables", len(data.Tables))
	return app.advance("reset schema", StageIdle, StageSchemaReady)
}

// LoadFixture reads the configured fixture and inserts it as one batch.
func (app *Application) LoadFixture(ctx context.Context) (fixture.Summary, error) {
	if err := app.require("load fixture", StageSchemaReady); err != nil {
		return nil, err
	}
	entries, err := app.source.Read(ctx, app.config.Fixture)
	if err != nil {
		return nil, err
	}
	summary, err := fixture.NewLoader(app.models, app.logger).Load(ctx, entries)
	if err != nil {
		return nil, err
	}
	for kind, n := range summary {
		app.metrics.RecordsLoaded(kind.String(), n)
	}
	return summary, app.advance("load fixture", StageSchemaReady, StageDataLoaded)
}

// Seed runs ResetSchema followed by LoadFixture.
func (app *Application) Seed(ctx context.Context) error {
	if err := app.ResetSchema(ctx); err != nil {
		return err
	}
	_, err := app.LoadFixture(ctx)
	return err
}

// Query runs the sales report for one publisher token.
func (app *Application) Query(ctx context.Context, token string) ([]data.SaleRow, error) {
	if err := app.require("query", StageDataLoaded); err != nil {
		return nil, err
	}
	rows, err := app.sales(ctx, token)
	if err != nil {
		return nil, err
	}
	return rows, app.advance("query", StageDataLoaded, StageQueryExecuted)
}

// Report runs Query and renders the rows to w.
func (app *Application) Report(ctx context.Context, token string, w io.Writer) error {
	rows, err := app.Query(ctx, token)
	if err != nil {
		return err
	}
	return report.Render(w, rows)
}

func (app *Application) sales(ctx context.Context, token string) ([]data.SaleRow, error) {
	filter, err := report.ParseQuery(token)
	if err != nil {
		return nil, err
	}
	label := "id"
	if filter.ByName {
		label = "name"
	}
	start := time.Now()
	rows, err := app.models.Sales.ByPublisher(ctx, filter)
	app.metrics.QueryObserved(label, time.Since(start), len(rows), err)
	return rows, err
}

// Close releases the database handle. It is safe to call more than once and
// from any stage.
func (app *Application) Close() error {
	if app.stage == StageClosed {
		return nil
	}
	app.stage = StageClosed
	if err := app.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
