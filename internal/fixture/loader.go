package fixture

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/wisp167/BookSales/internal/data"
)

// Summary counts the records inserted per kind.
type Summary map[Kind]int

func (s Summary) Total() int {
	n := 0
	for _, c := range s {
		n += c
	}
	return n
}

func (s Summary) String() string {
	parts := make([]string, 0, len(Kinds))
	for _, k := range Kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", k, s[k]))
	}
	return strings.Join(parts, " ")
}

type Loader struct {
	models data.Models
	logger *log.Logger
}

func NewLoader(models data.Models, logger *log.Logger) *Loader {
	return &Loader{models: models, logger: logger}
}

// Load inserts entries in a single transaction. Entries are reordered by
// kind so that referenced rows always precede the rows pointing at them;
// within a kind the fixture order is kept. Any failure rolls back the batch.
func (l *Loader) Load(ctx context.Context, entries []Entry) (summary Summary, err error) {
	if err := checkDuplicates(entries); err != nil {
		return nil, err
	}
	ordered := Order(entries)

	tx, err := l.models.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	summary = Summary{}
	for _, e := range ordered {
		if err = l.models.Entities.Insert(ctx, tx, e.Entity); err != nil {
			return nil, fmt.Errorf("insert %s pk=%d: %w", e.Kind, e.Entity.Key(), err)
		}
		summary[e.Kind]++
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit fixture: %w", err)
	}

	if l.logger != nil {
		l.logger.Printf("fixture loaded: %d records (%s)", summary.Total(), summary)
	}
	return summary, nil
}

// Order returns a copy of entries sorted into foreign-key dependency order.
func Order(entries []Entry) []Entry {
	ordered := make([]Entry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Kind < ordered[j].Kind
	})
	return ordered
}

func checkDuplicates(entries []Entry) error {
	type key struct {
		kind Kind
		pk   int64
	}
	seen := make(map[key]struct{}, len(entries))
	for _, e := range entries {
		k := key{e.Kind, e.Entity.Key()}
		if _, ok := seen[k]; ok {
			return fmt.Errorf("%w: %s pk=%d", ErrDuplicateKey, e.Kind, k.pk)
		}
		seen[k] = struct{}{}
	}
	return nil
}
