package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PublisherFilter selects a publisher either by primary key or by exact name.
type PublisherFilter struct {
	ID     int64
	Name   string
	ByName bool
}

func PublisherByID(id int64) PublisherFilter {
	return PublisherFilter{ID: id}
}

func PublisherByName(name string) PublisherFilter {
	return PublisherFilter{Name: name, ByName: true}
}

func (f PublisherFilter) String() string {
	if f.ByName {
		return fmt.Sprintf("name=%q", f.Name)
	}
	return fmt.Sprintf("id=%d", f.ID)
}

// SaleRow is one sale of a publisher's book in some shop.
type SaleRow struct {
	Title string
	Shop  string
	Price float64
	Date  time.Time
}

type SalesModel struct {
	DB      *sql.DB
	Dialect Dialect
}

const salesByPublisher = `
	SELECT b.title, sh.name, sa.price, sa.date_sale
	FROM book b
	JOIN publisher p ON p.id = b.id_publisher
	JOIN stock st ON st.id_book = b.id
	JOIN sale sa ON sa.id_stock = st.id
	JOIN shop sh ON sh.id = st.id_shop
`

// ByPublisher returns every sale of the filtered publisher's books. Rows come
// back in whatever order the engine produces; no match yields an empty slice.
func (m SalesModel) ByPublisher(ctx context.Context, f PublisherFilter) ([]SaleRow, error) {
	var (
		stmt string
		arg  any
	)
	if f.ByName {
		stmt = salesByPublisher + `WHERE p.name = ?`
		arg = f.Name
	} else {
		stmt = salesByPublisher + `WHERE p.id = ?`
		arg = f.ID
	}

	rows, err := m.DB.QueryContext(ctx, m.Dialect.Rebind(stmt), arg)
	if err != nil {
		return nil, fmt.Errorf("query sales by publisher %s: %w", f, err)
	}
	defer rows.Close()

	sales := []SaleRow{}
	for rows.Next() {
		var (
			r     SaleRow
			title sql.NullString
			shop  sql.NullString
			price sql.NullFloat64
			date  sql.NullTime
		)
		if err := rows.Scan(&title, &shop, &price, &date); err != nil {
			return nil, err
		}
		r.Title = title.String
		r.Shop = shop.String
		r.Price = price.Float64
		if date.Valid {
			r.Date = DateOnly(date.Time)
		}
		sales = append(sales, r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sales, nil
}
