package surgery

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

func connFor(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return pool
}

// =========== Operating Room Repository ===========

type operatingRoomRepoPG struct{ pool *pgxpool.Pool }

func NewOperatingRoomRepoPG(pool *pgxpool.Pool) OperatingRoomRepository {
	return &operatingRoomRepoPG{pool: pool}
}

const roomCols = `id, name, room_type, is_backup, is_active, note, created_at, updated_at`

func scanRoom(row pgx.Row) (*OperatingRoom, error) {
	var r OperatingRoom
	err := row.Scan(&r.ID, &r.Name, &r.RoomType, &r.IsBackup, &r.IsActive, &r.Note, &r.CreatedAt, &r.UpdatedAt)
	return &r, err
}

func (r *operatingRoomRepoPG) Create(ctx context.Context, room *OperatingRoom) error {
	room.ID = uuid.New()
	_, err := connFor(ctx, r.pool).Exec(ctx, `
		INSERT INTO operating_room (id, name, room_type, is_backup, is_active, note)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		room.ID, room.Name, room.RoomType, room.IsBackup, room.IsActive, room.Note)
	return err
}

func (r *operatingRoomRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*OperatingRoom, error) {
	return scanRoom(connFor(ctx, r.pool).QueryRow(ctx, `SELECT `+roomCols+` FROM operating_room WHERE id = $1`, id))
}

func (r *operatingRoomRepoPG) Update(ctx context.Context, room *OperatingRoom) error {
	_, err := connFor(ctx, r.pool).Exec(ctx, `
		UPDATE operating_room SET name=$2, room_type=$3, is_backup=$4, is_active=$5, note=$6, updated_at=NOW()
		WHERE id = $1`,
		room.ID, room.Name, room.RoomType, room.IsBackup, room.IsActive, room.Note)
	return err
}

func (r *operatingRoomRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := connFor(ctx, r.pool).Exec(ctx, `DELETE FROM operating_room WHERE id = $1`, id)
	return err
}

func (r *operatingRoomRepoPG) List(ctx context.Context, limit, offset int) ([]*OperatingRoom, int, error) {
	var total int
	if err := connFor(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM operating_room`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := connFor(ctx, r.pool).Query(ctx, `SELECT `+roomCols+` FROM operating_room ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*OperatingRoom
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, room)
	}
	return items, total, nil
}

func (r *operatingRoomRepoPG) ListActive(ctx context.Context) ([]*OperatingRoom, error) {
	rows, err := connFor(ctx, r.pool).Query(ctx, `SELECT `+roomCols+` FROM operating_room WHERE is_active ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*OperatingRoom
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, room)
	}
	return items, nil
}

// =========== Surgeon Repository ===========

type surgeonRepoPG struct{ pool *pgxpool.Pool }

func NewSurgeonRepoPG(pool *pgxpool.Pool) SurgeonRepository { return &surgeonRepoPG{pool: pool} }

const surgeonCols = `id, name, specialty, phone, email, is_active, created_at, updated_at`

func scanSurgeon(row pgx.Row) (*Surgeon, error) {
	var s Surgeon
	err := row.Scan(&s.ID, &s.Name, &s.Specialty, &s.Phone, &s.Email, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *surgeonRepoPG) Create(ctx context.Context, s *Surgeon) error {
	s.ID = uuid.New()
	_, err := connFor(ctx, r.pool).Exec(ctx, `
		INSERT INTO surgeon (id, name, specialty, phone, email, is_active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		s.ID, s.Name, s.Specialty, s.Phone, s.Email, s.IsActive)
	return err
}

func (r *surgeonRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Surgeon, error) {
	return scanSurgeon(connFor(ctx, r.pool).QueryRow(ctx, `SELECT `+surgeonCols+` FROM surgeon WHERE id = $1`, id))
}

func (r *surgeonRepoPG) Update(ctx context.Context, s *Surgeon) error {
	_, err := connFor(ctx, r.pool).Exec(ctx, `
		UPDATE surgeon SET name=$2, specialty=$3, phone=$4, email=$5, is_active=$6, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.Name, s.Specialty, s.Phone, s.Email, s.IsActive)
	return err
}

func (r *surgeonRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := connFor(ctx, r.pool).Exec(ctx, `DELETE FROM surgeon WHERE id = $1`, id)
	return err
}

func (r *surgeonRepoPG) List(ctx context.Context, limit, offset int) ([]*Surgeon, int, error) {
	var total int
	if err := connFor(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM surgeon`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := connFor(ctx, r.pool).Query(ctx, `SELECT `+surgeonCols+` FROM surgeon ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Surgeon
	for rows.Next() {
		s, err := scanSurgeon(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, nil
}

func (r *surgeonRepoPG) ListActive(ctx context.Context) ([]*Surgeon, error) {
	rows, err := connFor(ctx, r.pool).Query(ctx, `SELECT `+surgeonCols+` FROM surgeon WHERE is_active ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Surgeon
	for rows.Next() {
		s, err := scanSurgeon(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, nil
}

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository { return &patientRepoPG{pool: pool} }

const patientCols = `id, name, mrn, phone, is_active, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.MRN, &p.Phone, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := connFor(ctx, r.pool).Exec(ctx, `
		INSERT INTO patient (id, name, mrn, phone, is_active)
		VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.Name, p.MRN, p.Phone, p.IsActive)
	return err
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(connFor(ctx, r.pool).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	_, err := connFor(ctx, r.pool).Exec(ctx, `
		UPDATE patient SET name=$2, mrn=$3, phone=$4, is_active=$5, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.MRN, p.Phone, p.IsActive)
	return err
}

func (r *patientRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := connFor(ctx, r.pool).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	return err
}

func (r *patientRepoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := connFor(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := connFor(ctx, r.pool).Query(ctx, `SELECT `+patientCols+` FROM patient ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

// =========== Surgery Type Repository ===========

type surgeryTypeRepoPG struct{ pool *pgxpool.Pool }

func NewSurgeryTypeRepoPG(pool *pgxpool.Pool) SurgeryTypeRepository {
	return &surgeryTypeRepoPG{pool: pool}
}

const surgeryTypeCols = `id, name, code, default_duration_mins, created_at, updated_at`

func scanSurgeryType(row pgx.Row) (*SurgeryType, error) {
	var st SurgeryType
	err := row.Scan(&st.ID, &st.Name, &st.Code, &st.DefaultDurationMins, &st.CreatedAt, &st.UpdatedAt)
	return &st, err
}

func (r *surgeryTypeRepoPG) Create(ctx context.Context, st *SurgeryType) error {
	st.ID = uuid.New()
	_, err := connFor(ctx, r.pool).Exec(ctx, `
		INSERT INTO surgery_type (id, name, code, default_duration_mins)
		VALUES ($1,$2,$3,$4)`,
		st.ID, st.Name, st.Code, st.DefaultDurationMins)
	return err
}

func (r *surgeryTypeRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*SurgeryType, error) {
	return scanSurgeryType(connFor(ctx, r.pool).QueryRow(ctx, `SELECT `+surgeryTypeCols+` FROM surgery_type WHERE id = $1`, id))
}

func (r *surgeryTypeRepoPG) Update(ctx context.Context, st *SurgeryType) error {
	_, err := connFor(ctx, r.pool).Exec(ctx, `
		UPDATE surgery_type SET name=$2, code=$3, default_duration_mins=$4, updated_at=NOW()
		WHERE id = $1`,
		st.ID, st.Name, st.Code, st.DefaultDurationMins)
	return err
}

func (r *surgeryTypeRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := connFor(ctx, r.pool).Exec(ctx, `DELETE FROM surgery_type WHERE id = $1`, id)
	return err
}

func (r *surgeryTypeRepoPG) List(ctx context.Context, limit, offset int) ([]*SurgeryType, int, error) {
	var total int
	if err := connFor(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM surgery_type`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := connFor(ctx, r.pool).Query(ctx, `SELECT `+surgeryTypeCols+` FROM surgery_type ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*SurgeryType
	for rows.Next() {
		st, err := scanSurgeryType(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, st)
	}
	return items, total, nil
}

// =========== Surgery Repository ===========

type surgeryRepoPG struct{ pool *pgxpool.Pool }

func NewSurgeryRepoPG(pool *pgxpool.Pool) SurgeryRepository { return &surgeryRepoPG{pool: pool} }

const surgeryCols = `id, patient_id, surgery_type_id, surgeon_id, duration_mins, urgency, status,
	room_id, start_time, end_time, note, created_at, updated_at`

func scanSurgery(row pgx.Row) (*Surgery, error) {
	var s Surgery
	err := row.Scan(&s.ID, &s.PatientID, &s.SurgeryTypeID, &s.SurgeonID, &s.DurationMins, &s.Urgency, &s.Status,
		&s.RoomID, &s.StartTime, &s.EndTime, &s.Note, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *surgeryRepoPG) Create(ctx context.Context, s *Surgery) error {
	s.ID = uuid.New()
	_, err := connFor(ctx, r.pool).Exec(ctx, `
		INSERT INTO surgery (id, patient_id, surgery_type_id, surgeon_id, duration_mins, urgency, status,
			room_id, start_time, end_time, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		s.ID, s.PatientID, s.SurgeryTypeID, s.SurgeonID, s.DurationMins, s.Urgency, s.Status,
		s.RoomID, s.StartTime, s.EndTime, s.Note)
	return err
}

func (r *surgeryRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Surgery, error) {
	return scanSurgery(connFor(ctx, r.pool).QueryRow(ctx, `SELECT `+surgeryCols+` FROM surgery WHERE id = $1`, id))
}

func (r *surgeryRepoPG) Update(ctx context.Context, s *Surgery) error {
	_, err := connFor(ctx, r.pool).Exec(ctx, `
		UPDATE surgery SET surgeon_id=$2, duration_mins=$3, urgency=$4, status=$5,
			room_id=$6, start_time=$7, end_time=$8, note=$9, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.SurgeonID, s.DurationMins, s.Urgency, s.Status,
		s.RoomID, s.StartTime, s.EndTime, s.Note)
	return err
}

func (r *surgeryRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := connFor(ctx, r.pool).Exec(ctx, `DELETE FROM surgery WHERE id = $1`, id)
	return err
}

func (r *surgeryRepoPG) List(ctx context.Context, limit, offset int) ([]*Surgery, int, error) {
	var total int
	if err := connFor(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM surgery`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := connFor(ctx, r.pool).Query(ctx, `SELECT `+surgeryCols+` FROM surgery ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectSurgeries(rows, total)
}

func (r *surgeryRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Surgery, int, error) {
	var total int
	if err := connFor(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM surgery WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := connFor(ctx, r.pool).Query(ctx, `SELECT `+surgeryCols+` FROM surgery WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectSurgeries(rows, total)
}

func (r *surgeryRepoPG) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Surgery, int, error) {
	var total int
	if err := connFor(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM surgery WHERE status = $1`, status).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := connFor(ctx, r.pool).Query(ctx, `SELECT `+surgeryCols+` FROM surgery WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectSurgeries(rows, total)
}

func collectSurgeries(rows pgx.Rows, total int) ([]*Surgery, int, error) {
	var items []*Surgery
	for rows.Next() {
		s, err := scanSurgery(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, nil
}

func (r *surgeryRepoPG) SetSchedule(ctx context.Context, id, roomID, surgeonID uuid.UUID, start, end time.Time) error {
	_, err := connFor(ctx, r.pool).Exec(ctx, `
		UPDATE surgery SET room_id=$2, surgeon_id=$3, start_time=$4, end_time=$5, status=$6, updated_at=NOW()
		WHERE id = $1`,
		id, roomID, surgeonID, start, end, StatusScheduled)
	return err
}

func (r *surgeryRepoPG) ClearSchedule(ctx context.Context, id uuid.UUID) error {
	_, err := connFor(ctx, r.pool).Exec(ctx, `
		UPDATE surgery SET room_id=NULL, surgeon_id=NULL, start_time=NULL, end_time=NULL, status=$2, updated_at=NOW()
		WHERE id = $1`,
		id, StatusAwaitingReschedule)
	return err
}
