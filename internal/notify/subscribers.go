package notify

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Subscriber is one row of the subscriber list.
type Subscriber struct {
	Name        string
	Email       string
	Preferences []string
	University  string
}

// ParseSubscribers reads a subscriber list in csv form with the
// columns name, email, preferences, university. Preferences are
// slash-separated inside their cell. A header row is detected by its
// email column and skipped.
func ParseSubscribers(r io.Reader) ([]Subscriber, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse subscribers: %w", err)
	}

	var out []Subscriber
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("parse subscribers: row %d has %d columns, want at least 2", i+1, len(row))
		}
		email := strings.TrimSpace(row[1])
		if i == 0 && strings.EqualFold(email, "email") {
			continue
		}
		sub := Subscriber{
			Name:  strings.TrimSpace(row[0]),
			Email: email,
		}
		if len(row) > 2 {
			for _, p := range strings.Split(row[2], "/") {
				p = strings.TrimSpace(p)
				if p != "" {
					sub.Preferences = append(sub.Preferences, p)
				}
			}
		}
		if len(row) > 3 {
			sub.University = strings.TrimSpace(row[3])
		}
		out = append(out, sub)
	}
	return out, nil
}

// ReadSubscribers loads the subscriber list from a csv file.
func ReadSubscribers(path string) ([]Subscriber, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseSubscribers(f)
}
