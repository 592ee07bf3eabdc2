package fixture

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/wisp167/BookSales/internal/data"
)

var (
	ErrMissingField = errors.New("missing required field")
	ErrDuplicateKey = errors.New("duplicate primary key")
)

// Record is one element of a fixture file as it appears on disk.
type Record struct {
	Model  string          `json:"model"`
	PK     int64           `json:"pk"`
	Fields json.RawMessage `json:"fields"`
}

// Entry is a decoded, typed fixture record.
type Entry struct {
	Kind   Kind
	Entity data.Entity
}

// Decode reads a JSON array of records and decodes each into its entity.
func Decode(r io.Reader) ([]Entry, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	entries := make([]Entry, 0, len(records))
	for i, rec := range records {
		e, err := rec.Entry()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Entry resolves the record's kind and decodes its fields.
func (r Record) Entry() (Entry, error) {
	kind, err := ParseKind(r.Model)
	if err != nil {
		return Entry{}, err
	}
	entity, err := decoders[kind](r.PK, r.Fields)
	if err != nil {
		return Entry{}, fmt.Errorf("%s pk=%d: %w", kind, r.PK, err)
	}
	return Entry{Kind: kind, Entity: entity}, nil
}

type decoder func(pk int64, raw json.RawMessage) (data.Entity, error)

var decoders = map[Kind]decoder{
	KindPublisher: decodePublisher,
	KindShop:      decodeShop,
	KindBook:      decodeBook,
	KindStock:     decodeStock,
	KindSale:      decodeSale,
}

func decodePublisher(pk int64, raw json.RawMessage) (data.Entity, error) {
	var f struct {
		Name *string `json:"name"`
	}
	if err := strictUnmarshal(raw, &f); err != nil {
		return nil, err
	}
	if f.Name == nil {
		return nil, missing("name")
	}
	return data.Publisher{ID: pk, Name: *f.Name}, nil
}

func decodeShop(pk int64, raw json.RawMessage) (data.Entity, error) {
	var f struct {
		Name *string `json:"name"`
	}
	if err := strictUnmarshal(raw, &f); err != nil {
		return nil, err
	}
	if f.Name == nil {
		return nil, missing("name")
	}
	return data.Shop{ID: pk, Name: *f.Name}, nil
}

func decodeBook(pk int64, raw json.RawMessage) (data.Entity, error) {
	var f struct {
		Title       *string `json:"title"`
		PublisherID *int64  `json:"id_publisher"`
	}
	if err := strictUnmarshal(raw, &f); err != nil {
		return nil, err
	}
	switch {
	case f.Title == nil:
		return nil, missing("title")
	case f.PublisherID == nil:
		return nil, missing("id_publisher")
	}
	return data.Book{ID: pk, Title: *f.Title, PublisherID: *f.PublisherID}, nil
}

func decodeStock(pk int64, raw json.RawMessage) (data.Entity, error) {
	var f struct {
		BookID *int64 `json:"id_book"`
		ShopID *int64 `json:"id_shop"`
		Count  int    `json:"count"`
	}
	if err := strictUnmarshal(raw, &f); err != nil {
		return nil, err
	}
	switch {
	case f.BookID == nil:
		return nil, missing("id_book")
	case f.ShopID == nil:
		return nil, missing("id_shop")
	}
	return data.Stock{ID: pk, BookID: *f.BookID, ShopID: *f.ShopID, Count: f.Count}, nil
}

func decodeSale(pk int64, raw json.RawMessage) (data.Entity, error) {
	var f struct {
		Price    *flexFloat `json:"price"`
		DateSale *flexDate  `json:"date_sale"`
		Date     *flexDate  `json:"date"`
		StockID  *int64     `json:"id_stock"`
		Count    int        `json:"count"`
	}
	if err := strictUnmarshal(raw, &f); err != nil {
		return nil, err
	}
	date := f.DateSale
	if date == nil {
		date = f.Date
	}
	switch {
	case f.Price == nil:
		return nil, missing("price")
	case date == nil:
		return nil, missing("date_sale")
	case f.StockID == nil:
		return nil, missing("id_stock")
	}
	return data.Sale{
		ID:      pk,
		Price:   float64(*f.Price),
		Date:    time.Time(*date),
		StockID: *f.StockID,
		Count:   f.Count,
	}, nil
}

func strictUnmarshal(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return missing("fields")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func missing(field string) error {
	return fmt.Errorf("%w %q", ErrMissingField, field)
}

// flexFloat accepts a JSON number or a numeric string ("50.05").
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := string(b)
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("invalid price %s", b)
	}
	*f = flexFloat(v)
	return nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// flexDate accepts full timestamps as well as bare dates.
type flexDate time.Time

func (d *flexDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("invalid date %s", b)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*d = flexDate(data.DateOnly(t))
			return nil
		}
	}
	return fmt.Errorf("unable to parse date: %s", s)
}
