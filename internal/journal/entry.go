package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/tally/internal/calc"
)

// Entry is one journaled calculation.
type Entry struct {
	ID          string    `json:"id"`
	Seq         int64     `json:"seq"`
	Session     string    `json:"session"`
	RecordedAt  time.Time `json:"recorded_at"`
	Op          calc.Op   `json:"-"`
	First       float64   `json:"-"`
	Second      float64   `json:"-"`
	Result      float64   `json:"-"`
	Description string    `json:"description"`
}

// EntryFromOutcome builds an entry for a successful calculation.
func EntryFromOutcome(out calc.Outcome, at time.Time) Entry {
	return Entry{
		RecordedAt:  at,
		Op:          out.Op,
		First:       out.First,
		Second:      out.Second,
		Result:      out.Result,
		Description: out.Description(),
	}
}

// Record inserts e, assigning its ID, Seq and Session when they are unset.
// The stored entry is returned.
//
// An unset Seq is taken as MAX(seq)+1 inside the INSERT itself, so several
// processes sharing one database never hand out the same value.
func (j *Journal) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = j.ids.Generate()
	}
	if e.Session == "" {
		e.Session = j.session
	}

	err := j.db.QueryRowContext(ctx, `
		INSERT INTO calculations
		(id, seq, session, recorded_at, op, first, second, result, description)
		VALUES (?, COALESCE(NULLIF(?, 0), (SELECT COALESCE(MAX(seq), 0) + 1 FROM calculations)),
			?, ?, ?, ?, ?, ?, ?)
		RETURNING seq
	`,
		e.ID,
		e.Seq,
		e.Session,
		e.RecordedAt.Format(time.RFC3339Nano),
		e.Op.String(),
		calc.FormatNumber(e.First),
		calc.FormatNumber(e.Second),
		calc.FormatNumber(e.Result),
		e.Description,
	).Scan(&e.Seq)
	if err != nil {
		return Entry{}, fmt.Errorf("record calculation: %w", err)
	}
	return e, nil
}

// Filter narrows List.
type Filter struct {
	Session string // empty matches every session
	Limit   int    // <= 0 means no limit; otherwise the most recent Limit entries
}

// List returns matching entries ordered by seq ascending.
func (j *Journal) List(ctx context.Context, f Filter) ([]Entry, error) {
	query := `
		SELECT id, seq, session, recorded_at, op, first, second, result, description
		FROM (
			SELECT * FROM calculations
			WHERE (? = '' OR session = ?)
			ORDER BY seq DESC
			LIMIT ?
		)
		ORDER BY seq ASC`

	limit := f.Limit
	if limit <= 0 {
		limit = -1
	}

	rows, err := j.db.QueryContext(ctx, query, f.Session, f.Session, limit)
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list calculations: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	return out, nil
}

// Count returns the number of journaled calculations.
func (j *Journal) Count(ctx context.Context) (int, error) {
	var n int
	if err := j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM calculations").Scan(&n); err != nil {
		return 0, fmt.Errorf("count calculations: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e                     Entry
		at, op                string
		first, second, result string
	)
	if err := row.Scan(&e.ID, &e.Seq, &e.Session, &at, &op, &first, &second, &result, &e.Description); err != nil {
		return Entry{}, err
	}

	var err error
	if e.RecordedAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
		return Entry{}, fmt.Errorf("entry %s recorded_at: %w", e.ID, err)
	}
	if e.Op, err = calc.ParseOp(op); err != nil {
		return Entry{}, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	if e.First, err = calc.ParseNumber(first); err != nil {
		return Entry{}, fmt.Errorf("entry %s first: %w", e.ID, err)
	}
	if e.Second, err = calc.ParseNumber(second); err != nil {
		return Entry{}, fmt.Errorf("entry %s second: %w", e.ID, err)
	}
	if e.Result, err = calc.ParseNumber(result); err != nil {
		return Entry{}, fmt.Errorf("entry %s result: %w", e.ID, err)
	}
	return e, nil
}
