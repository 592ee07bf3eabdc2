package app

import (
	"bytes"
	"context"
	"io"
	"log"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisp167/BookSales/internal/config"
	"github.com/wisp167/BookSales/internal/data"
	"github.com/wisp167/BookSales/internal/fixture"
	"github.com/wisp167/BookSales/internal/testutil"
)

func newTestApp(t *testing.T, fixtureJSON string) *Application {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "tests_data.json", []byte(fixtureJSON), 0o644))

	cfg := config.Config{
		Env:     "testing",
		Fixture: "tests_data.json",
		DB:      config.DB{Driver: "sqlite3", Name: ":memory:"},
	}
	logger := log.New(io.Discard, "", 0)

	app, err := NewWithDB(cfg, logger, testutil.OpenSQLite(t), WithSource(fixture.NewSource(fs)))
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func seededApp(t *testing.T, fixtureJSON string) *Application {
	t.Helper()
	app := newTestApp(t, fixtureJSON)
	require.NoError(t, app.Seed(context.Background()))
	return app
}

// TestReportAcme runs the whole flow on the single-sale fixture, by name and by id.
func TestReportAcme(t *testing.T) {
	for _, token := range []string{"Acme", "1"} {
		app := seededApp(t, testutil.AcmeFixture)

		var out bytes.Buffer
		require.NoError(t, app.Report(context.Background(), token, &out))
		assert.Equal(t, "Go Main St 9.99 2024-01-01\n", out.String(), token)
		assert.Equal(t, StageQueryExecuted, app.Stage())

		require.NoError(t, app.Close())
		assert.Equal(t, StageClosed, app.Stage())
	}
}

func TestQueryByIDMatchesName(t *testing.T) {
	byID, err := seededApp(t, testutil.BookstoreFixture).Query(context.Background(), "1")
	require.NoError(t, err)
	byName, err := seededApp(t, testutil.BookstoreFixture).Query(context.Background(), "O’Reilly")
	require.NoError(t, err)

	assert.Len(t, byID, 4)
	assert.ElementsMatch(t, byID, byName)
}

func TestQueryPublisherWithoutSales(t *testing.T) {
	rows, err := seededApp(t, testutil.BookstoreFixture).Query(context.Background(), "Microsoft Press")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLoadFixtureSummary(t *testing.T) {
	app := newTestApp(t, testutil.BookstoreFixture)
	ctx := context.Background()

	require.NoError(t, app.ResetSchema(ctx))
	summary, err := app.LoadFixture(ctx)
	require.NoError(t, err)
	assert.Equal(t, 28, summary.Total())
	assert.Equal(t, StageDataLoaded, app.Stage())
}

// TestStageOrder checks that the lifecycle only moves forward.
func TestStageOrder(t *testing.T) {
	app := newTestApp(t, testutil.AcmeFixture)
	ctx := context.Background()

	_, err := app.Query(ctx, "Acme")
	assert.ErrorIs(t, err, ErrStage)
	_, err = app.LoadFixture(ctx)
	assert.ErrorIs(t, err, ErrStage)

	require.NoError(t, app.ResetSchema(ctx))
	assert.ErrorIs(t, app.ResetSchema(ctx), ErrStage)

	_, err = app.LoadFixture(ctx)
	require.NoError(t, err)

	_, err = app.Query(ctx, "Acme")
	require.NoError(t, err)
	_, err = app.Query(ctx, "Acme")
	assert.ErrorIs(t, err, ErrStage)

	require.NoError(t, app.Close())
	require.NoError(t, app.Close())
	assert.ErrorIs(t, app.ResetSchema(ctx), ErrStage)
}

func TestStartNeedsLoadedData(t *testing.T) {
	app := newTestApp(t, testutil.AcmeFixture)

	assert.ErrorIs(t, app.Start(), ErrStage)
	assert.NoError(t, app.Stop())
}

func TestSeedFailsOnUnknownKind(t *testing.T) {
	app := newTestApp(t, `[{"model": "author", "pk": 1, "fields": {"name": "X"}}]`)

	err := app.Seed(context.Background())
	assert.ErrorIs(t, err, fixture.ErrUnknownKind)
	assert.Equal(t, StageSchemaReady, app.Stage())
}

func TestSeedFailsOnDanglingReference(t *testing.T) {
	app := newTestApp(t, `[{"model": "book", "pk": 1, "fields": {"title": "Go", "id_publisher": 1}}]`)

	err := app.Seed(context.Background())
	assert.ErrorIs(t, err, data.ErrForeignKey)

	n, err := app.Models().Entities.Count(context.Background(), data.TableBook)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEmptyQueryIsAnError(t *testing.T) {
	app := seededApp(t, testutil.AcmeFixture)

	_, err := app.Query(context.Background(), "  ")
	assert.Error(t, err)
	assert.Equal(t, StageDataLoaded, app.Stage())
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "schema-ready", StageSchemaReady.String())
	assert.Equal(t, "Stage(9)", Stage(9).String())
}
