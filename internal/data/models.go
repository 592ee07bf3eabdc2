package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrForeignKey     = errors.New("foreign key violation")
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Models struct {
	Schema   SchemaModel
	Entities EntityModel
	Sales    SalesModel
}

func NewModels(db *sql.DB, dialect Dialect) Models {
	return Models{
		Schema:   SchemaModel{DB: db, Dialect: dialect},
		Entities: EntityModel{DB: db, Dialect: dialect},
		Sales:    SalesModel{DB: db, Dialect: dialect},
	}
}

// Begin opens the transaction a fixture batch is written in.
func (m Models) Begin(ctx context.Context) (*sql.Tx, error) {
	tx, err := m.Entities.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return tx, nil
}
