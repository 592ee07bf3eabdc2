package fixture

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisp167/BookSales/internal/data"
	"github.com/wisp167/BookSales/internal/testutil"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
		assert.Equal(t, data.Table(k.String()), k.Table())
	}

	_, err := ParseKind("author")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestKindsFollowTableOrder(t *testing.T) {
	require.Len(t, Kinds, len(data.Tables))
	for i, k := range Kinds {
		assert.Equal(t, data.Tables[i], k.Table())
	}
}

func TestDecodeAcme(t *testing.T) {
	entries, err := Decode(strings.NewReader(testutil.AcmeFixture))
	require.NoError(t, err)

	want := []Entry{
		{KindPublisher, data.Publisher{ID: 1, Name: "Acme"}},
		{KindBook, data.Book{ID: 1, Title: "Go", PublisherID: 1}},
		{KindShop, data.Shop{ID: 1, Name: "Main St"}},
		{KindStock, data.Stock{ID: 1, BookID: 1, ShopID: 1, Count: 5}},
		{KindSale, data.Sale{ID: 1, Price: 9.99, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), StockID: 1, Count: 1}},
	}
	assert.Equal(t, want, entries)
}

// TestDecodeOriginalSaleShape checks string prices and timestamped dates.
func TestDecodeOriginalSaleShape(t *testing.T) {
	in := `[{"model": "sale", "pk": 7, "fields": {"price": "50.05", "date_sale": "2018-10-25T09:45:24.552Z", "count": 16, "id_stock": 1}}]`

	entries, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	sale, ok := entries[0].Entity.(data.Sale)
	require.True(t, ok)
	assert.Equal(t, 50.05, sale.Price)
	assert.Equal(t, "2018-10-25", sale.Date.Format("2006-01-02"))
	assert.Equal(t, int64(1), sale.StockID)
	assert.Equal(t, 16, sale.Count)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"unknown kind", `[{"model": "author", "pk": 1, "fields": {"name": "X"}}]`, ErrUnknownKind},
		{"missing title", `[{"model": "book", "pk": 1, "fields": {"id_publisher": 1}}]`, ErrMissingField},
		{"missing publisher", `[{"model": "book", "pk": 1, "fields": {"title": "Go"}}]`, ErrMissingField},
		{"missing fields", `[{"model": "shop", "pk": 1}]`, ErrMissingField},
		{"missing stock ref", `[{"model": "stock", "pk": 1, "fields": {"id_book": 1}}]`, ErrMissingField},
		{"missing sale date", `[{"model": "sale", "pk": 1, "fields": {"price": 1, "id_stock": 1}}]`, ErrMissingField},
		{"missing price", `[{"model": "sale", "pk": 1, "fields": {"date": "2024-01-01", "id_stock": 1}}]`, ErrMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	inputs := []string{
		`{"model": "shop"}`,
		`[{"model": "shop", "pk": 1, "fields": {"name": "A", "city": "B"}}]`,
		`[{"model": "sale", "pk": 1, "fields": {"price": "cheap", "date": "2024-01-01", "id_stock": 1}}]`,
		`[{"model": "sale", "pk": 1, "fields": {"price": 1, "date": "yesterday", "id_stock": 1}}]`,
	}
	for _, in := range inputs {
		_, err := Decode(strings.NewReader(in))
		assert.Error(t, err, in)
	}
}
