package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisp167/BookSales/internal/testutil"
)

func newTestModels(t *testing.T) Models {
	t.Helper()
	m := NewModels(testutil.OpenSQLite(t), SQLite)
	require.NoError(t, m.Schema.Reset(context.Background()))
	return m
}

// insertAll writes entities in one transaction and commits.
func insertAll(t *testing.T, m Models, entities ...Entity) {
	t.Helper()
	ctx := context.Background()

	tx, err := m.Begin(ctx)
	require.NoError(t, err)
	for _, e := range entities {
		if err := m.Entities.Insert(ctx, tx, e); err != nil {
			tx.Rollback()
			t.Fatalf("insert %T: %v", e, err)
		}
	}
	require.NoError(t, tx.Commit())
}

var acme = []Entity{
	Publisher{ID: 1, Name: "Acme"},
	Shop{ID: 1, Name: "Main St"},
	Book{ID: 1, Title: "Go", PublisherID: 1},
	Stock{ID: 1, BookID: 1, ShopID: 1, Count: 5},
	Sale{ID: 1, Price: 9.99, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), StockID: 1, Count: 1},
}

// TestRoundTrip checks that every inserted row reads back unchanged.
func TestRoundTrip(t *testing.T) {
	m := newTestModels(t)
	insertAll(t, m, acme...)

	for _, want := range acme {
		got, err := m.Entities.Get(context.Background(), want.Table(), want.Key())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestGetMissingRow(t *testing.T) {
	m := newTestModels(t)

	_, err := m.Entities.GetPublisher(context.Background(), 42)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

// TestInsertBookWithoutPublisher checks that a dangling reference is reported
// as a foreign key violation and nothing of the batch is committed.
func TestInsertBookWithoutPublisher(t *testing.T) {
	m := newTestModels(t)
	ctx := context.Background()

	tx, err := m.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, m.Entities.Insert(ctx, tx, Publisher{ID: 1, Name: "Acme"}))
	err = m.Entities.Insert(ctx, tx, Book{ID: 1, Title: "Go", PublisherID: 99})
	assert.ErrorIs(t, err, ErrForeignKey)
	require.NoError(t, tx.Rollback())

	n, err := m.Entities.Count(ctx, TablePublisher)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// TestSchemaReset checks that resetting twice leaves an empty, reloadable schema.
func TestSchemaReset(t *testing.T) {
	m := newTestModels(t)
	ctx := context.Background()
	insertAll(t, m, acme...)

	require.NoError(t, m.Schema.Reset(ctx))
	require.NoError(t, m.Schema.Reset(ctx))

	for _, table := range Tables {
		n, err := m.Entities.Count(ctx, table)
		require.NoError(t, err)
		assert.Zero(t, n, table)
	}

	insertAll(t, m, acme...)
	n, err := m.Entities.Count(ctx, TableSale)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCreateOverExistingSchemaFails(t *testing.T) {
	m := newTestModels(t)

	err := m.Schema.Create(context.Background())
	assert.Error(t, err)
}

func TestDropThenCreate(t *testing.T) {
	m := newTestModels(t)
	ctx := context.Background()

	require.NoError(t, m.Schema.Drop(ctx))
	_, err := m.Entities.Count(ctx, TableBook)
	assert.Error(t, err, "book table should be gone")

	require.NoError(t, m.Schema.Create(ctx))
	n, err := m.Entities.Count(ctx, TableBook)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCountUnknownTable(t *testing.T) {
	m := newTestModels(t)

	_, err := m.Entities.Count(context.Background(), Table("users; DROP TABLE book"))
	assert.Error(t, err)
}

func TestSalesByPublisher(t *testing.T) {
	m := newTestModels(t)
	ctx := context.Background()
	insertAll(t, m, acme...)

	want := []SaleRow{{
		Title: "Go",
		Shop:  "Main St",
		Price: 9.99,
		Date:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}}

	byName, err := m.Sales.ByPublisher(ctx, PublisherByName("Acme"))
	require.NoError(t, err)
	assert.Equal(t, want, byName)

	byID, err := m.Sales.ByPublisher(ctx, PublisherByID(1))
	require.NoError(t, err)
	assert.Equal(t, byName, byID)
}

// TestSalesWithoutMatches checks that a publisher without sales, and an
// unknown publisher, both give an empty result rather than an error.
func TestSalesWithoutMatches(t *testing.T) {
	m := newTestModels(t)
	ctx := context.Background()
	insertAll(t, m, append([]Entity{Publisher{ID: 2, Name: "Quiet"}}, acme...)...)

	for _, f := range []PublisherFilter{PublisherByID(2), PublisherByName("Quiet"), PublisherByName("Nobody")} {
		rows, err := m.Sales.ByPublisher(ctx, f)
		require.NoError(t, err, f.String())
		assert.NotNil(t, rows)
		assert.Empty(t, rows, f.String())
	}
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2018, 10, 25, 9, 45, 24, 552000000, time.FixedZone("MSK", 3*60*60))
	assert.Equal(t, time.Date(2018, 10, 25, 0, 0, 0, 0, time.UTC), DateOnly(in))
}

func TestClassifyLeavesOtherErrors(t *testing.T) {
	assert.NoError(t, classify(nil))
	assert.Equal(t, sql.ErrConnDone, classify(sql.ErrConnDone))
}
