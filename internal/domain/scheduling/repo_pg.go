package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AnasAkhomach/Surgical-Scheduling-Optimizer-sub001/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type assignmentRepoPG struct{ pool *pgxpool.Pool }

func NewAssignmentRepoPG(pool *pgxpool.Pool) AssignmentRepository {
	return &assignmentRepoPG{pool: pool}
}

func (r *assignmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const assignmentCols = `a.id, a.schedule_date, a.room_id, a.surgery_id, a.surgeon_id, a.start_time, a.end_time`

func (r *assignmentRepoPG) Create(ctx context.Context, a *Assignment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO schedule_assignment (id, schedule_date, room_id, surgery_id, surgeon_id, start_time, end_time)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.ScheduleDate, a.RoomID, a.SurgeryID, a.SurgeonID, a.StartTime, a.EndTime)
	return err
}

func (r *assignmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Assignment, error) {
	var a Assignment
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT `+assignmentCols+` FROM schedule_assignment a WHERE a.id = $1`, id).
		Scan(&a.ID, &a.ScheduleDate, &a.RoomID, &a.SurgeryID, &a.SurgeonID, &a.StartTime, &a.EndTime)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepoPG) DeleteBySurgery(ctx context.Context, surgeryID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM schedule_assignment WHERE surgery_id = $1`, surgeryID)
	return err
}

func (r *assignmentRepoPG) ListByDate(ctx context.Context, date time.Time) ([]*Assignment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+assignmentCols+`, s.urgency, s.duration_mins
		FROM schedule_assignment a
		JOIN surgery s ON s.id = a.surgery_id
		WHERE a.schedule_date = $1
		ORDER BY a.start_time, a.id`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.ScheduleDate, &a.RoomID, &a.SurgeryID, &a.SurgeonID,
			&a.StartTime, &a.EndTime, &a.Urgency, &a.SurgeryDurationMins); err != nil {
			return nil, err
		}
		items = append(items, &a)
	}
	return items, rows.Err()
}

func (r *assignmentRepoPG) LockDay(ctx context.Context, date time.Time) error {
	// One advisory lock per calendar day, held until the surrounding
	// transaction ends.
	key := date.UTC().Unix() / 86400
	_, err := r.conn(ctx).Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, key)
	return err
}
