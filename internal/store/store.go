// Package store holds the in-memory transaction dataset and its deletion
// ledger. The dataset is loaded once at process start and is immutable
// afterwards; every read path subtracts the ledger's tombstones.
package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nmoreau/bankwatch/internal/domain"
)

// LoadError reports a missing or structurally invalid source file. It is
// fatal: the process must not begin serving when Load fails.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load dataset %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

var requiredColumns = []string{"id", "client_id", "amount", "type", "date"}

var knownColumns = map[string]struct{}{
	"id":           {},
	"client_id":    {},
	"recipient_id": {},
	"amount":       {},
	"type":         {},
	"date":         {},
	"timestamp":    {},
	"status":       {},
	"description":  {},
}

// Store is the immutable in-memory dataset: records in file order, an
// id-to-index map for O(1) lookup, and pre-sorted traversal orders for the
// date-descending and timestamp-descending read paths.
type Store struct {
	records    []domain.Transaction
	index      map[int64]int
	byDateDesc []int
	byTimeDesc []int
	source     string
	loadedAt   time.Time
}

// Load parses the delimited source file into a Store. Any structural problem
// (missing file, missing required column, ragged row, duplicate identifier,
// unparsable amount or date) surfaces as a *LoadError.
func Load(path string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("file is empty")}
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("missing required column %q", name)}
		}
	}

	var records []domain.Transaction
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			// csv.Reader enforces a consistent field count per record.
			return nil, &LoadError{Path: path, Err: err}
		}
		tx, err := parseRow(row, header, columns)
		if err != nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("line %d: %w", line, err)}
		}
		records = append(records, tx)
	}

	s, err := New(records)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	s.source = path
	return s, nil
}

// New builds a Store from already-typed records, validating identifier
// uniqueness and preparing the lookup index and traversal orders.
func New(records []domain.Transaction) (*Store, error) {
	index := make(map[int64]int, len(records))
	for i, tx := range records {
		if _, dup := index[tx.ID]; dup {
			return nil, fmt.Errorf("duplicate transaction id %d", tx.ID)
		}
		index[tx.ID] = i
	}

	byDate := make([]int, len(records))
	byTime := make([]int, len(records))
	for i := range records {
		byDate[i] = i
		byTime[i] = i
	}
	sort.SliceStable(byDate, func(a, b int) bool {
		ra, rb := records[byDate[a]], records[byDate[b]]
		if ra.Date != rb.Date {
			return ra.Date > rb.Date
		}
		return ra.ID > rb.ID
	})
	sort.SliceStable(byTime, func(a, b int) bool {
		ra, rb := records[byTime[a]], records[byTime[b]]
		if !ra.Timestamp.Equal(rb.Timestamp) {
			return ra.Timestamp.After(rb.Timestamp)
		}
		return ra.ID > rb.ID
	})

	return &Store{
		records:    records,
		index:      index,
		byDateDesc: byDate,
		byTimeDesc: byTime,
		loadedAt:   time.Now().UTC(),
	}, nil
}

// All exposes the full record slice in file order. Callers must treat it as
// read-only; it is shared between all concurrent readers.
func (s *Store) All() []domain.Transaction {
	return s.records
}

// ByID returns the record for the identifier, if it was ever loaded.
func (s *Store) ByID(id int64) (domain.Transaction, bool) {
	i, ok := s.index[id]
	if !ok {
		return domain.Transaction{}, false
	}
	return s.records[i], true
}

// Contains reports whether the identifier exists in the loaded dataset,
// tombstoned or not.
func (s *Store) Contains(id int64) bool {
	_, ok := s.index[id]
	return ok
}

// OrderedByDateDesc returns record indices sorted by date descending with
// identifier-descending tie-break, the canonical pagination order.
func (s *Store) OrderedByDateDesc() []int {
	return s.byDateDesc
}

// OrderedByTimeDesc returns record indices sorted by timestamp descending
// with identifier-descending tie-break.
func (s *Store) OrderedByTimeDesc() []int {
	return s.byTimeDesc
}

// Len is the total number of loaded records, including tombstoned ones.
func (s *Store) Len() int {
	return len(s.records)
}

// Source is the path the dataset was loaded from, empty for in-memory stores.
func (s *Store) Source() string {
	return s.source
}

// LoadedAt is the load completion time.
func (s *Store) LoadedAt() time.Time {
	return s.loadedAt
}

func parseRow(row, header []string, columns map[string]int) (domain.Transaction, error) {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	id, err := strconv.ParseInt(field("id"), 10, 64)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("invalid id %q", field("id"))
	}
	clientID, err := strconv.ParseInt(field("client_id"), 10, 64)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("invalid client_id %q", field("client_id"))
	}
	amount, err := decimal.NewFromString(field("amount"))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("invalid amount %q", field("amount"))
	}
	txType := field("type")
	if txType == "" {
		return domain.Transaction{}, fmt.Errorf("empty type")
	}

	date := field("date")
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("invalid date %q", date)
	}

	ts := day
	if raw := field("timestamp"); raw != "" {
		parsed, err := parseTimestamp(raw)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("invalid timestamp %q", raw)
		}
		ts = parsed
	}

	tx := domain.Transaction{
		ID:          id,
		ClientID:    clientID,
		Amount:      amount,
		Type:        txType,
		Status:      field("status"),
		Date:        date,
		Timestamp:   ts,
		Description: field("description"),
	}

	if raw := field("recipient_id"); raw != "" {
		recipient, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("invalid recipient_id %q", raw)
		}
		tx.RecipientID = &recipient
	}

	for i, name := range header {
		key := strings.TrimSpace(strings.ToLower(name))
		if _, known := knownColumns[key]; known {
			continue
		}
		if i >= len(row) {
			continue
		}
		if tx.Extra == nil {
			tx.Extra = make(map[string]string)
		}
		tx.Extra[key] = row[i]
	}

	return tx, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp format")
}
