package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cerridwen-io/babyrs/internal/event"
)

// timeFormat is the canonical occurred_at encoding. RFC 3339 with
// nanoseconds sorts lexicographically in UTC, so SQL ORDER BY on the
// column matches chronological order.
const timeFormat = time.RFC3339Nano

const eventColumns = "id, kind, occurred_at, notes, source, quantity_ml, minutes, urine, stool"

// Filter narrows ListEvents. The zero value matches all events.
type Filter struct {
	Kind  event.Kind // "" matches every kind
	Since time.Time  // inclusive lower bound, zero = unbounded
	Until time.Time  // exclusive upper bound, zero = unbounded
	Limit int        // 0 = no limit
}

// CreateEvent inserts a validated event and returns the assigned ID.
// The caller is responsible for Normalize/Validate; constraint
// violations surface as PersistenceError.
func (s *Store) CreateEvent(ctx context.Context, e event.Event) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
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
	)
	if err != nil {
		return 0, persistErr("create event", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, persistErr("create event: last insert id", err)
	}

	return id, nil
}

// GetEvent retrieves a single event by ID.
// Returns NotFoundError if no row matches.
func (s *Store) GetEvent(ctx context.Context, id int64) (event.Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE id = ?
	`, id)

	e, err := scanEvent(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return event.Event{}, &NotFoundError{ID: id}
	}
	if err != nil {
		return event.Event{}, persistErr("get event", err)
	}

	return e, nil
}

// ListEvents returns events matching the filter, newest first.
// Ordering is occurred_at DESC with id DESC as tiebreak so equal
// timestamps render deterministically. The result is a fresh slice;
// re-invoking restarts the sequence.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListEvents(ctx context.Context, f Filter) ([]event.Event, error) {
	var (
		conds []string
		args  []any
	)
	if f.Kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, string(f.Kind))
	}
	if !f.Since.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, f.Since.UTC().Format(timeFormat))
	}
	if !f.Until.IsZero() {
		conds = append(conds, "occurred_at < ?")
		args = append(args, f.Until.UTC().Format(timeFormat))
	}

	query := "SELECT " + eventColumns + " FROM events"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY occurred_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistErr("list events", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, persistErr("scan event", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate events", err)
	}

	if events == nil {
		events = []event.Event{}
	}

	return events, nil
}

// UpdateEvent replaces all mutable fields of an existing event and
// returns the stored result. The kind is fixed at creation and is
// not updated. Returns NotFoundError if the ID is absent.
func (s *Store) UpdateEvent(ctx context.Context, id int64, e event.Event) (event.Event, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE events
		SET occurred_at = ?, notes = ?, source = ?, quantity_ml = ?, minutes = ?, urine = ?, stool = ?
		WHERE id = ?
	`,
		e.OccurredAt.UTC().Format(timeFormat),
		e.Notes,
		string(e.Source),
		e.QuantityML,
		e.Minutes,
		e.Urine,
		e.Stool,
		id,
	)
	if err != nil {
		return event.Event{}, persistErr("update event", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return event.Event{}, persistErr("update event: rows affected", err)
	}
	if affected == 0 {
		return event.Event{}, &NotFoundError{ID: id}
	}

	return s.GetEvent(ctx, id)
}

// DeleteEvent removes an event by ID.
// Returns NotFoundError if the ID is absent; deletion of a stale
// reference is an error, never a silent no-op.
func (s *Store) DeleteEvent(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return persistErr("delete event", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return persistErr("delete event: rows affected", err)
	}
	if affected == 0 {
		return &NotFoundError{ID: id}
	}

	return nil
}

// scanEvent reads one events row through the given scan function,
// shared between QueryRow and Rows iteration.
func scanEvent(scan func(...any) error) (event.Event, error) {
	var (
		e          event.Event
		kind       string
		occurredAt string
		source     string
	)

	if err := scan(
		&e.ID, &kind, &occurredAt, &e.Notes, &source,
		&e.QuantityML, &e.Minutes, &e.Urine, &e.Stool,
	); err != nil {
		return event.Event{}, err
	}

	e.Kind = event.Kind(kind)
	e.Source = event.FeedSource(source)

	ts, err := time.Parse(timeFormat, occurredAt)
	if err != nil {
		return event.Event{}, fmt.Errorf("parse occurred_at %q: %w", occurredAt, err)
	}
	e.OccurredAt = ts

	return e, nil
}
