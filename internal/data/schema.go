package data

import (
	"context"
	"database/sql"
	"fmt"
)

// Table names a seeded table.
type Table string

const (
	TablePublisher Table = "publisher"
	TableShop      Table = "shop"
	TableBook      Table = "book"
	TableStock     Table = "stock"
	TableSale      Table = "sale"
)

// Tables lists every table in foreign-key dependency order: a table only
// references tables that appear before it.
var Tables = []Table{TablePublisher, TableShop, TableBook, TableStock, TableSale}

func (t Table) valid() bool {
	_, ok := tableDDL[t]
	return ok
}

var tableDDL = map[Table]string{
	TablePublisher: `CREATE TABLE publisher (
		id INTEGER PRIMARY KEY,
		name VARCHAR(40) UNIQUE
	)`,
	TableShop: `CREATE TABLE shop (
		id INTEGER PRIMARY KEY,
		name VARCHAR(60) UNIQUE
	)`,
	TableBook: `CREATE TABLE book (
		id INTEGER PRIMARY KEY,
		title VARCHAR(60),
		id_publisher INTEGER NOT NULL,
		FOREIGN KEY (id_publisher) REFERENCES publisher (id)
	)`,
	TableStock: `CREATE TABLE stock (
		id INTEGER PRIMARY KEY,
		id_book INTEGER NOT NULL,
		id_shop INTEGER NOT NULL,
		count INTEGER,
		FOREIGN KEY (id_book) REFERENCES book (id),
		FOREIGN KEY (id_shop) REFERENCES shop (id)
	)`,
	TableSale: `CREATE TABLE sale (
		id INTEGER PRIMARY KEY,
		price NUMERIC(10, 2),
		date_sale DATE,
		id_stock INTEGER NOT NULL,
		count INTEGER,
		FOREIGN KEY (id_stock) REFERENCES stock (id)
	)`,
}

// SchemaModel owns the DDL of the seeded tables.
type SchemaModel struct {
	DB      *sql.DB
	Dialect Dialect
}

// Drop removes every seeded table, dependents first.
func (m SchemaModel) Drop(ctx context.Context) error {
	return m.drop(ctx, m.DB)
}

// Create creates every seeded table. The tables must not exist.
func (m SchemaModel) Create(ctx context.Context) error {
	return m.create(ctx, m.DB)
}

// Reset drops and recreates the schema, leaving it empty. It runs in one
// transaction on engines with transactional DDL.
func (m SchemaModel) Reset(ctx context.Context) (err error) {
	if !m.Dialect.transactionalDDL() {
		if err := m.drop(ctx, m.DB); err != nil {
			return err
		}
		return m.create(ctx, m.DB)
	}

	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema reset: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = m.drop(ctx, tx); err != nil {
		return err
	}
	if err = m.create(ctx, tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit schema reset: %w", err)
	}
	return nil
}

func (m SchemaModel) drop(ctx context.Context, db execer) error {
	suffix := ""
	if m.Dialect == Postgres {
		suffix = " CASCADE"
	}
	for i := len(Tables) - 1; i >= 0; i-- {
		stmt := "DROP TABLE IF EXISTS " + string(Tables[i]) + suffix
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("drop table %s: %w", Tables[i], err)
		}
	}
	return nil
}

func (m SchemaModel) create(ctx context.Context, db execer) error {
	for _, t := range Tables {
		if _, err := db.ExecContext(ctx, tableDDL[t]); err != nil {
			return fmt.Errorf("create table %s: %w", t, err)
		}
	}
	return nil
}
