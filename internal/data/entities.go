package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Entity is a row of one of the five seeded tables.
type Entity interface {
	Table() Table
	Key() int64
}

type Publisher struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Book struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	PublisherID int64  `json:"id_publisher"`
}

type Shop struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Stock struct {
	ID     int64 `json:"id"`
	BookID int64 `json:"id_book"`
	ShopID int64 `json:"id_shop"`
	Count  int   `json:"count"`
}

type Sale struct {
	ID      int64     `json:"id"`
	Price   float64   `json:"price"`
	Date    time.Time `json:"date_sale"`
	StockID int64     `json:"id_stock"`
	Count   int       `json:"count"`
}

func (Publisher) Table() Table { return TablePublisher }
func (Book) Table() Table      { return TableBook }
func (Shop) Table() Table      { return TableShop }
func (Stock) Table() Table     { return TableStock }
func (Sale) Table() Table      { return TableSale }

func (p Publisher) Key() int64 { return p.ID }
func (b Book) Key() int64      { return b.ID }
func (s Shop) Key() int64      { return s.ID }
func (s Stock) Key() int64     { return s.ID }
func (s Sale) Key() int64      { return s.ID }

// DateOnly truncates t to its calendar date in UTC. Engines disagree on the
// location they attach to DATE values, so everything is normalized here.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type EntityModel struct {
	DB      *sql.DB
	Dialect Dialect
}

// Insert writes e inside tx. Foreign key failures are reported as ErrForeignKey.
func (m EntityModel) Insert(ctx context.Context, tx *sql.Tx, e Entity) error {
	var (
		stmt string
		args []any
	)
	switch v := e.(type) {
	case Publisher:
		stmt = `INSERT INTO publisher (id, name) VALUES (?, ?)`
		args = []any{v.ID, v.Name}
	case Book:
		stmt = `INSERT INTO book (id, title, id_publisher) VALUES (?, ?, ?)`
		args = []any{v.ID, v.Title, v.PublisherID}
	case Shop:
		stmt = `INSERT INTO shop (id, name) VALUES (?, ?)`
		args = []any{v.ID, v.Name}
	case Stock:
		stmt = `INSERT INTO stock (id, id_book, id_shop, count) VALUES (?, ?, ?, ?)`
		args = []any{v.ID, v.BookID, v.ShopID, v.Count}
	case Sale:
		stmt = `INSERT INTO sale (id, price, date_sale, id_stock, count) VALUES (?, ?, ?, ?, ?)`
		args = []any{v.ID, v.Price, DateOnly(v.Date), v.StockID, v.Count}
	default:
		return fmt.Errorf("insert: unsupported entity %T", e)
	}

	if _, err := tx.ExecContext(ctx, m.Dialect.Rebind(stmt), args...); err != nil {
		return classify(err)
	}
	return nil
}

func (m EntityModel) GetPublisher(ctx context.Context, id int64) (*Publisher, error) {
	stmt := `SELECT id, name FROM publisher WHERE id = ?`

	var p Publisher
	err := m.DB.QueryRowContext(ctx, m.Dialect.Rebind(stmt), id).Scan(&p.ID, &p.Name)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (m EntityModel) GetBook(ctx context.Context, id int64) (*Book, error) {
	stmt := `SELECT id, title, id_publisher FROM book WHERE id = ?`

	var b Book
	err := m.DB.QueryRowContext(ctx, m.Dialect.Rebind(stmt), id).Scan(&b.ID, &b.Title, &b.PublisherID)
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (m EntityModel) GetShop(ctx context.Context, id int64) (*Shop, error) {
	stmt := `SELECT id, name FROM shop WHERE id = ?`

	var s Shop
	err := m.DB.QueryRowContext(ctx, m.Dialect.Rebind(stmt), id).Scan(&s.ID, &s.Name)
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (m EntityModel) GetStock(ctx context.Context, id int64) (*Stock, error) {
	stmt := `SELECT id, id_book, id_shop, count FROM stock WHERE id = ?`

	var s Stock
	err := m.DB.QueryRowContext(ctx, m.Dialect.Rebind(stmt), id).Scan(&s.ID, &s.BookID, &s.ShopID, &s.Count)
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (m EntityModel) GetSale(ctx context.Context, id int64) (*Sale, error) {
	stmt := `SELECT id, price, date_sale, id_stock, count FROM sale WHERE id = ?`

	var s Sale
	err := m.DB.QueryRowContext(ctx, m.Dialect.Rebind(stmt), id).Scan(&s.ID, &s.Price, &s.Date, &s.StockID, &s.Count)
	if err != nil {
		return nil, notFound(err)
	}
	s.Date = DateOnly(s.Date)
	return &s, nil
}

// Get loads the row of table with the given primary key.
func (m EntityModel) Get(ctx context.Context, table Table, id int64) (Entity, error) {
	var (
		e   Entity
		err error
	)
	switch table {
	case TablePublisher:
		var p *Publisher
		if p, err = m.GetPublisher(ctx, id); err == nil {
			e = *p
		}
	case TableBook:
		var b *Book
		if b, err = m.GetBook(ctx, id); err == nil {
			e = *b
		}
	case TableShop:
		var s *Shop
		if s, err = m.GetShop(ctx, id); err == nil {
			e = *s
		}
	case TableStock:
		var s *Stock
		if s, err = m.GetStock(ctx, id); err == nil {
			e = *s
		}
	case TableSale:
		var s *Sale
		if s, err = m.GetSale(ctx, id); err == nil {
			e = *s
		}
	default:
		return nil, fmt.Errorf("get: unknown table %q", table)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Count returns the number of rows in table.
func (m EntityModel) Count(ctx context.Context, table Table) (int, error) {
	if !table.valid() {
		return 0, fmt.Errorf("count: unknown table %q", table)
	}
	var n int
	err := m.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+string(table)).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRecordNotFound
	}
	return err
}
