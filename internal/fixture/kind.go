package fixture

import (
	"errors"
	"fmt"

	"github.com/wisp167/BookSales/internal/data"
)

var ErrUnknownKind = errors.New("unknown model kind")

// Kind is the model tag of a fixture record. The zero value is invalid.
// Kinds are numbered in foreign-key dependency order.
type Kind int

const (
	KindPublisher Kind = iota + 1
	KindShop
	KindBook
	KindStock
	KindSale
)

// Kinds lists every kind in insertion order.
var Kinds = []Kind{KindPublisher, KindShop, KindBook, KindStock, KindSale}

func ParseKind(tag string) (Kind, error) {
	switch tag {
	case "publisher":
		return KindPublisher, nil
	case "shop":
		return KindShop, nil
	case "book":
		return KindBook, nil
	case "stock":
		return KindStock, nil
	case "sale":
		return KindSale, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, tag)
}

func (k Kind) String() string {
	switch k {
	case KindPublisher:
		return "publisher"
	case KindShop:
		return "shop"
	case KindBook:
		return "book"
	case KindStock:
		return "stock"
	case KindSale:
		return "sale"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Table is the table records of this kind are stored in.
func (k Kind) Table() data.Table {
	return data.Table(k.String())
}
