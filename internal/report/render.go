package report

import (
	"bufio"
	"io"
	"sort"
	"strconv"

	"github.com/wisp167/BookSales/internal/data"
)

const dateLayout = "2006-01-02"

// Render writes one line per row: title, shop, price and date separated by
// single spaces.
func Render(w io.Writer, rows []data.SaleRow) error {
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		bw.WriteString(Line(r))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func Line(r data.SaleRow) string {
	return r.Title + " " + r.Shop + " " + FormatPrice(r.Price) + " " + r.Date.Format(dateLayout)
}

// FormatPrice prints the shortest decimal form of p (9.99, 50.05, 16).
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// FormatDate prints the calendar date of a sale.
func FormatDate(r data.SaleRow) string {
	return r.Date.Format(dateLayout)
}

// Sort orders rows by date, then title, then shop.
func Sort(rows []data.SaleRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.Shop < b.Shop
	})
}
