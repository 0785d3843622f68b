package events

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/holidaycal/internal/dbx"
	"github.com/dmitrijs2005/holidaycal/internal/server/models"
)

const eventColumns = `id, user_id, title, event_date, country_code, holiday_type, description, created_at, updated_at`

// PostgresRepository implements event storage. When bound to a *sql.DB,
// InsertMany runs inside its own transaction.
type PostgresRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.CalendarEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events
		WHERE user_id = $1
		ORDER BY event_date, created_at, id`

	return r.selectEvents(ctx, query, userID)
}

func (r *PostgresRepository) FindInRange(ctx context.Context, userID, countryCode string, from, to time.Time) ([]*models.CalendarEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events
		WHERE user_id = $1 AND country_code = $2 AND event_date BETWEEN $3 AND $4
		ORDER BY event_date, id`

	return r.selectEvents(ctx, query, userID, countryCode, day(from), day(to))
}

func (r *PostgresRepository) selectEvents(ctx context.Context, query string, args ...any) ([]*models.CalendarEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select events: %w", err)
	}
	defer rows.Close()

	result := []*models.CalendarEvent{}
	for rows.Next() {
		var e models.CalendarEvent
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Title, &e.Date, &e.CountryCode,
			&e.HolidayType, &e.Description, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		e.Date = day(e.Date)
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresRepository) InsertMany(ctx context.Context, events []*models.CalendarEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	if db, ok := r.db.(*sql.DB); ok {
		var added int
		err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			var err error
			added, err = insertEvents(ctx, tx, events, r.now().UTC())
			return err
		})
		if err != nil {
			return 0, err
		}
		return added, nil
	}

	return insertEvents(ctx, r.db, events, r.now().UTC())
}

func insertEvents(ctx context.Context, db dbx.DBTX, events []*models.CalendarEvent, now time.Time) (int, error) {
	query := `INSERT INTO calendar_events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, title, event_date) DO NOTHING`

	added := 0
	for _, e := range events {
		prepare(e, now)

		res, err := db.ExecContext(ctx, query,
			e.ID, e.UserID, e.Title, day(e.Date), e.CountryCode,
			e.HolidayType, e.Description, e.CreatedAt, e.UpdatedAt)
		if err != nil {
			return 0, fmt.Errorf("db error: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected error: %w", err)
		}
		added += int(n)
	}

	return added, nil
}
