package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/agentstation/utc"

	"github.com/northstarhq/northstar/pkg/errors"
	"github.com/northstarhq/northstar/pkg/okr"
)

// UpdateFields is a partial update of an active work item. Nil fields are
// left unchanged.
type UpdateFields struct {
	Title    *string
	Scope    *string
	Deadline *string
	Category *string
	Priority *okr.Priority
	Notes    *string
}

const itemColumns = `id, title, scope, deadline, category, priority, notes,
	created_at, updated_at, completed_at, expected_vs_actual_days`

// Create persists a new active work item.
func (s *Store) Create(ctx context.Context, item okr.WorkItem) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO okrs (id, title, scope, deadline, category, priority, notes, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 'active', ?, ?)`,
		item.ID, item.Title, item.Scope, item.Deadline, item.Category,
		string(item.Priority), item.Notes, item.CreatedAt.Time, item.UpdatedAt.Time,
	)
	if err != nil {
		return errors.WrapIO("write", "okrs", err)
	}
	return nil
}

// Get retrieves an active work item by id.
func (s *Store) Get(ctx context.Context, id string) (okr.WorkItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM okrs WHERE id = ? AND status = 'active'`, id)

	item, _, err := scanItem(row)
	if err == sql.ErrNoRows {
		return okr.WorkItem{}, errors.NewNotFoundError("okr", id)
	}
	if err != nil {
		return okr.WorkItem{}, errors.WrapIO("read", "okrs", err)
	}
	return item, nil
}

// ListActive retrieves active work items ordered by priority then
// deadline. An empty category matches all categories.
func (s *Store) ListActive(ctx context.Context, category string) ([]okr.WorkItem, error) {
	query := `SELECT ` + itemColumns + ` FROM okrs WHERE status = 'active'`
	args := []any{}
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	query += " ORDER BY priority ASC, deadline ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.WrapIO("read", "okrs", err)
	}
	defer func() { _ = rows.Close() }()

	items := []okr.WorkItem{}
	for rows.Next() {
		item, _, err := scanItem(rows)
		if err != nil {
			return nil, errors.WrapIO("read", "okrs", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapIO("read", "okrs", err)
	}
	return items, nil
}

// ListArchived retrieves completed work items, most recently completed
// first.
func (s *Store) ListArchived(ctx context.Context) ([]okr.ArchivedItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM okrs WHERE status = 'archived' ORDER BY completed_at DESC`)
	if err != nil {
		return nil, errors.WrapIO("read", "okrs", err)
	}
	defer func() { _ = rows.Close() }()

	items := []okr.ArchivedItem{}
	for rows.Next() {
		item, archived, err := scanItem(rows)
		if err != nil {
			return nil, errors.WrapIO("read", "okrs", err)
		}
		archived.WorkItem = item
		items = append(items, archived)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapIO("read", "okrs", err)
	}
	return items, nil
}

// Update applies a partial update to an active work item and returns the
// updated record.
func (s *Store) Update(ctx context.Context, id string, fields UpdateFields) (okr.WorkItem, error) {
	set := "updated_at = ?"
	args := []any{time.Now().UTC()}

	assign := func(column string, value any) {
		set += ", " + column + " = ?"
		args = append(args, value)
	}
	if fields.Title != nil {
		assign("title", *fields.Title)
	}
	if fields.Scope != nil {
		assign("scope", *fields.Scope)
	}
	if fields.Deadline != nil {
		assign("deadline", *fields.Deadline)
	}
	if fields.Category != nil {
		assign("category", *fields.Category)
	}
	if fields.Priority != nil {
		assign("priority", string(*fields.Priority))
	}
	if fields.Notes != nil {
		assign("notes", *fields.Notes)
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		"UPDATE okrs SET "+set+" WHERE id = ? AND status = 'active'", args...)
	if err != nil {
		return okr.WorkItem{}, errors.WrapIO("write", "okrs", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return okr.WorkItem{}, errors.NewNotFoundError("okr", id)
	}

	return s.Get(ctx, id)
}

// Complete archives an active work item, recording the completion time
// and how many days late (positive) or early (negative) it finished
// relative to its deadline.
func (s *Store) Complete(ctx context.Context, id string) (okr.ArchivedItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return okr.ArchivedItem{}, err
	}

	completedAt := time.Now().UTC()
	days := expectedVsActualDays(item.Deadline, completedAt)

	_, err = s.db.ExecContext(ctx,
		`UPDATE okrs SET status = 'archived', completed_at = ?, expected_vs_actual_days = ?, updated_at = ?
		WHERE id = ? AND status = 'active'`,
		completedAt, days, completedAt, id)
	if err != nil {
		return okr.ArchivedItem{}, errors.WrapIO("write", "okrs", err)
	}

	item.UpdatedAt = utc.Time{Time: completedAt}
	return okr.ArchivedItem{
		WorkItem:             item,
		CompletedAt:          utc.Time{Time: completedAt},
		ExpectedVsActualDays: days,
	}, nil
}

// Delete removes an active work item.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM okrs WHERE id = ? AND status = 'active'", id)
	if err != nil {
		return errors.WrapIO("write", "okrs", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NewNotFoundError("okr", id)
	}
	return nil
}

// ApplyUpdates writes a batch of reconciled updates onto active rows in a
// single transaction. Updates whose id no longer matches an active row are
// skipped; a reconcile pass must not resurrect completed items.
func (s *Store) ApplyUpdates(ctx context.Context, updates []okr.Update) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapIO("write", "okrs", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, update := range updates {
		_, err := tx.ExecContext(ctx,
			`UPDATE okrs SET category = ?, priority = ?, scope = ?, deadline = ?, updated_at = ?
			WHERE id = ? AND status = 'active'`,
			update.Category, string(update.Priority), update.Scope, update.Deadline, now, update.ID)
		if err != nil {
			return errors.WrapIO("write", "okrs", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.WrapIO("write", "okrs", err)
	}
	return nil
}

// expectedVsActualDays is the rounded day delta between the deadline
// (taken at midnight UTC) and the completion instant.
func expectedVsActualDays(deadline string, completedAt time.Time) int {
	expected, err := time.ParseInLocation(okr.DateFormat, deadline, time.UTC)
	if err != nil {
		return 0
	}
	delta := completedAt.Sub(expected)
	return int(delta.Round(24 * time.Hour).Hours() / 24)
}

// scanner lets scanItem work with both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (okr.WorkItem, okr.ArchivedItem, error) {
	var (
		item        okr.WorkItem
		priority    string
		createdAt   time.Time
		updatedAt   time.Time
		completedAt sql.NullTime
		days        sql.NullInt64
	)

	err := row.Scan(&item.ID, &item.Title, &item.Scope, &item.Deadline,
		&item.Category, &priority, &item.Notes,
		&createdAt, &updatedAt, &completedAt, &days)
	if err != nil {
		return okr.WorkItem{}, okr.ArchivedItem{}, err
	}

	item.Priority = okr.Priority(priority)
	item.CreatedAt = utc.Time{Time: createdAt}
	item.UpdatedAt = utc.Time{Time: updatedAt}

	archived := okr.ArchivedItem{}
	if completedAt.Valid {
		archived.CompletedAt = utc.Time{Time: completedAt.Time}
	}
	if days.Valid {
		archived.ExpectedVsActualDays = int(days.Int64)
	}
	return item, archived, nil
}
