// Package report turns a publisher token into a sales query and prints the
// result as plain text.
package report

import (
	"errors"
	"strconv"
	"strings"

	"github.com/wisp167/BookSales/internal/data"
)

var ErrEmptyQuery = errors.New("empty publisher name or id")

// ParseQuery reads a token made only of ASCII digits as a publisher id and
// anything else as a publisher name.
func ParseQuery(token string) (data.PublisherFilter, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return data.PublisherFilter{}, ErrEmptyQuery
	}
	if isDigits(token) {
		if id, err := strconv.ParseInt(token, 10, 64); err == nil {
			return data.PublisherByID(id), nil
		}
	}
	return data.PublisherByName(token), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
