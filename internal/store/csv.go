package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/cerridwen-io/babyrs/internal/event"
)

// csvHeader is the required column order for event CSV files.
var csvHeader = []string{"occurred_at", "kind", "source", "quantity_ml", "minutes", "urine", "stool", "notes"}

// ImportResult summarizes a completed CSV import.
type ImportResult struct {
	Batch    string `json:"batch"`    // correlation id for this run
	Inserted int    `json:"inserted"` // rows written
}

// ImportCSV reads a headered CSV file of events and inserts every row
// in a single transaction. Any malformed or invalid row aborts the
// whole import; partial imports never reach the database.
//
// Each run is tagged with a uuid batch id that appears in log lines
// for correlation.
func (s *Store) ImportCSV(ctx context.Context, path string) (ImportResult, error) {
	batch := uuid.NewString()
	log := slog.With("batch", batch, "path", path)
	log.Info("importing csv")

	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(csvHeader)

	header, err := r.Read()
	if err != nil {
		return ImportResult{}, fmt.Errorf("read csv header: %w", err)
	}
	for i, want := range csvHeader {
		if header[i] != want {
			return ImportResult{}, fmt.Errorf("csv header column %d: got %q, want %q", i, header[i], want)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportResult{}, persistErr("import csv: begin tx", err)
	}
	defer tx.Rollback() // No-op if committed

	inserted := 0
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ImportResult{}, fmt.Errorf("read csv line %d: %w", line, err)
		}

		e, err := parseCSVRecord(record)
		if err != nil {
			return ImportResult{}, fmt.Errorf("csv line %d: %w", line, err)
		}

		e.Normalize()
		if err := e.Validate(); err != nil {
			return ImportResult{}, fmt.Errorf("csv line %d: %w", line, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO events (kind, occurred_at, notes, source, quantity_ml, minutes, urine, stool)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			string(e.Kind),
			e.OccurredAt.UTC().Format(timeFormat),
			e.Notes,
			string(e.Source),
			e.QuantityML,
			e.Minutes,
			e.Urine,
			e.Stool,
		); err != nil {
			return ImportResult{}, persistErr(fmt.Sprintf("import csv line %d", line), err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{}, persistErr("import csv: commit", err)
	}

	log.Info("csv imported", "rows", inserted)

	return ImportResult{Batch: batch, Inserted: inserted}, nil
}

// parseCSVRecord converts one CSV record into an event.
// Timestamps accept RFC 3339 or the layout "2006-01-02 15:04", the
// latter read as local time like the interactive session's form.
func parseCSVRecord(record []string) (event.Event, error) {
	occurredAt, err := parseTimestamp(record[0])
	if err != nil {
		return event.Event{}, err
	}

	quantity, err := parseIntField("quantity_ml", record[3])
	if err != nil {
		return event.Event{}, err
	}
	minutes, err := parseIntField("minutes", record[4])
	if err != nil {
		return event.Event{}, err
	}
	urine, err := parseBoolField("urine", record[5])
	if err != nil {
		return event.Event{}, err
	}
	stool, err := parseBoolField("stool", record[6])
	if err != nil {
		return event.Event{}, err
	}

	return event.Event{
		Kind:       event.Kind(record[1]),
		OccurredAt: occurredAt,
		Source:     event.FeedSource(record[2]),
		QuantityML: quantity,
		Minutes:    minutes,
		Urine:      urine,
		Stool:      stool,
		Notes:      record[7],
	}, nil
}

func parseTimestamp(value string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	ts, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse occurred_at %q: %w", value, err)
	}
	return ts, nil
}

func parseIntField(name, value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolField(name, value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse %s %q: %w", name, value, err)
	}
	return b, nil
}
