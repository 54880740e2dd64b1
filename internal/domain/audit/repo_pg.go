package audit

import (
	"context"
	"fmt"
	"strings"

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

type EventRepoPG struct {
	pool *pgxpool.Pool
}

func NewEventRepoPG(pool *pgxpool.Pool) *EventRepoPG {
	return &EventRepoPG{pool: pool}
}

func (r *EventRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const eventCols = `id, action, resource_type, resource_id, detail, recorded_at`

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.Action, &e.ResourceType, &e.ResourceID, &e.Detail, &e.RecordedAt)
	return &e, err
}

func (r *EventRepoPG) Create(ctx context.Context, e *Event) error {
	q := fmt.Sprintf(`INSERT INTO audit_event (action, resource_type, resource_id, detail)
		VALUES ($1, $2, $3, $4) RETURNING %s`, eventCols)
	row := r.conn(ctx).QueryRow(ctx, q, e.Action, e.ResourceType, e.ResourceID, e.Detail)
	created, err := scanEvent(row)
	if err != nil {
		return err
	}
	*e = *created
	return nil
}

func (r *EventRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	q := fmt.Sprintf("SELECT %s FROM audit_event WHERE id = $1", eventCols)
	return scanEvent(r.conn(ctx).QueryRow(ctx, q, id))
}

func (r *EventRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Event, int, error) {
	where := []string{}
	args := []interface{}{}
	idx := 1

	if v, ok := params["action"]; ok {
		where = append(where, fmt.Sprintf("action = $%d", idx))
		args = append(args, v)
		idx++
	}
	if v, ok := params["resource_type"]; ok {
		where = append(where, fmt.Sprintf("resource_type = $%d", idx))
		args = append(args, v)
		idx++
	}
	if v, ok := params["resource_id"]; ok {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid resource_id: %w", err)
		}
		where = append(where, fmt.Sprintf("resource_id = $%d", idx))
		args = append(args, id)
		idx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	countQ := fmt.Sprintf("SELECT COUNT(*) FROM audit_event %s", whereClause)
	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf("SELECT %s FROM audit_event %s ORDER BY recorded_at DESC LIMIT $%d OFFSET $%d",
		eventCols, whereClause, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, nil
}
