package scheduling

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AnasAkhomach/Surgical-Scheduling-Optimizer-sub001/internal/domain/surgery"
	"github.com/AnasAkhomach/Surgical-Scheduling-Optimizer-sub001/internal/platform/db"
	"github.com/AnasAkhomach/Surgical-Scheduling-Optimizer-sub001/internal/platform/notification"
)

// SurgeryStore is the slice of the surgery repository the engine writes
// through. The pgx surgery repository satisfies it directly.
type SurgeryStore interface {
	Create(ctx context.Context, s *surgery.Surgery) error
	SetSchedule(ctx context.Context, id, roomID, surgeonID uuid.UUID, start, end time.Time) error
	ClearSchedule(ctx context.Context, id uuid.UUID) error
}

type PatientDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*surgery.Patient, error)
}

type SurgeryTypeDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*surgery.SurgeryType, error)
}

type SurgeonDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*surgery.Surgeon, error)
	ListActive(ctx context.Context) ([]*surgery.Surgeon, error)
}

type RoomDirectory interface {
	ListActive(ctx context.Context) ([]*surgery.OperatingRoom, error)
}

// Notifier is the asynchronous, best-effort delivery contract. Priority
// affects ordering only, never success.
type Notifier interface {
	Send(recipient, subject, body string, channel notification.Channel, priority notification.Priority, metadata map[string]string) string
}

// AuditRecorder records an event without ever surfacing a failure to the
// scheduling decision.
type AuditRecorder interface {
	Record(ctx context.Context, action, resourceType string, resourceID uuid.UUID, detail map[string]interface{})
}

// Deps bundles everything the scheduling service needs from the composition
// root.
type Deps struct {
	Assignments AssignmentRepository
	Surgeries   SurgeryStore
	Patients    PatientDirectory
	Types       SurgeryTypeDirectory
	Surgeons    SurgeonDirectory
	Rooms       RoomDirectory
	Tx          db.TxRunner
	Policy      Policy
	Notifier    Notifier
	Templates   *notification.TemplateEngine
	Audit       AuditRecorder
	Log         zerolog.Logger
}

type Service struct {
	deps Deps
}

func NewService(deps Deps) *Service {
	return &Service{deps: deps}
}

// DaySchedule returns the committed assignments for a calendar day.
func (s *Service) DaySchedule(ctx context.Context, date time.Time) ([]*Assignment, error) {
	return s.deps.Assignments.ListByDate(ctx, scheduleDay(date))
}

// HandleEmergency runs the full insertion pipeline for one emergency arrival:
// validate references, then inside a single transaction lock the day, create
// the emergency surgery record, snapshot the schedule, run the tactic
// orchestrator and apply the winning tactic. Tactic exhaustion still commits:
// the surgery row survives as an unscheduled record and its ID is returned so
// the caller can retry with relaxed flags or escalate. Notifications and the
// audit trail go out after commit and never affect the result.
func (s *Service) HandleEmergency(ctx context.Context, req *EmergencyRequest) (*InsertionOutcome, error) {
	started := time.Now()

	if req.ArrivalTime.IsZero() {
		req.ArrivalTime = time.Now().UTC()
	}
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	day := scheduleDay(req.ArrivalTime)
	var (
		outcome  *InsertionOutcome
		res      tacticResult
		tactic   string
		roomName map[uuid.UUID]string
	)

	err := s.deps.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.deps.Assignments.LockDay(txCtx, day); err != nil {
			return &PersistenceError{Op: "lock schedule day", Err: err}
		}

		sur := &surgery.Surgery{
			PatientID:     req.PatientID,
			SurgeryTypeID: req.SurgeryTypeID,
			SurgeonID:     req.RequiredSurgeonID,
			DurationMins:  req.DurationMins,
			Urgency:       string(req.Tier.Urgency()),
			Status:        surgery.StatusPending,
		}
		if err := s.deps.Surgeries.Create(txCtx, sur); err != nil {
			return &PersistenceError{Op: "create emergency surgery", Err: err}
		}

		assignments, err := s.deps.Assignments.ListByDate(txCtx, day)
		if err != nil {
			return &PersistenceError{Op: "load day snapshot", Err: err}
		}
		snap := &Snapshot{Date: day, Assignments: assignments}

		rooms, err := s.roomPool(txCtx, req)
		if err != nil {
			return err
		}
		surgeons, err := s.surgeonPool(txCtx, req)
		if err != nil {
			return err
		}
		roomName = make(map[uuid.UUID]string, len(rooms))
		for _, r := range rooms {
			roomName[r.ID] = r.Name
		}

		res, tactic = runTactics(req, snap, rooms, surgeons, s.deps.Policy)
		outcome = buildOutcome(sur.ID, req, res, tactic)

		if res.ok() {
			if err := s.apply(txCtx, sur.ID, day, res); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	outcome.ProcessingMs = time.Since(started).Milliseconds()

	s.deps.Log.Info().
		Str("surgery_id", outcome.SurgeryID.String()).
		Bool("success", outcome.Success).
		Str("tactic", outcome.Tactic).
		Int("bumped", len(outcome.BumpedSurgeryIDs)).
		Bool("overtime", outcome.OvertimeRequired).
		Float64("disruption", outcome.DisruptionScore).
		Msg("emergency insertion decided")

	outcome.NotifiedStaff = s.notifyAfterCommit(req, res, outcome, roomName)
	s.recordAudit(outcome, req)
	return outcome, nil
}

// validate fails fast on unknown references before any schedule read. The
// max-wait override check is the one policy decision here: exceeding the
// tier's service target logs a warning by default and only blocks in strict
// mode.
func (s *Service) validate(ctx context.Context, req *EmergencyRequest) error {
	if req.DurationMins <= 0 {
		return &ValidationError{Field: "duration_mins", Reason: "must be positive"}
	}
	if _, err := s.deps.Patients.GetByID(ctx, req.PatientID); err != nil {
		return &ValidationError{Field: "patient_id", Reason: "unknown patient"}
	}
	if _, err := s.deps.Types.GetByID(ctx, req.SurgeryTypeID); err != nil {
		return &ValidationError{Field: "surgery_type_id", Reason: "unknown surgery type"}
	}
	if req.RequiredSurgeonID != nil {
		if _, err := s.deps.Surgeons.GetByID(ctx, *req.RequiredSurgeonID); err != nil {
			return &ValidationError{Field: "required_surgeon_id", Reason: "unknown surgeon"}
		}
	}
	if req.MaxWaitOverrideMins != nil && *req.MaxWaitOverrideMins > req.Tier.MaxWaitMins() {
		if s.deps.Policy.StrictSLAEnforcement {
			return &ValidationError{Field: "max_wait_override_mins", Reason: "exceeds the tier's wait-time target"}
		}
		s.deps.Log.Warn().
			Int("override_mins", *req.MaxWaitOverrideMins).
			Int("tier_target_mins", req.Tier.MaxWaitMins()).
			Str("tier", string(req.Tier)).
			Msg("max-wait override exceeds the tier target")
	}
	return nil
}

// roomPool loads the active rooms, applies the optional room-type filter and
// fixes the (name, id) enumeration order tactics rely on for determinism.
func (s *Service) roomPool(ctx context.Context, req *EmergencyRequest) ([]*surgery.OperatingRoom, error) {
	rooms, err := s.deps.Rooms.ListActive(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load room pool", Err: err}
	}
	if req.RoomType != nil {
		filtered := make([]*surgery.OperatingRoom, 0, len(rooms))
		for _, r := range rooms {
			if r.RoomType != nil && *r.RoomType == *req.RoomType {
				filtered = append(filtered, r)
			}
		}
		rooms = filtered
	}
	sort.SliceStable(rooms, func(i, j int) bool {
		if rooms[i].Name != rooms[j].Name {
			return rooms[i].Name < rooms[j].Name
		}
		return rooms[i].ID.String() < rooms[j].ID.String()
	})
	return rooms, nil
}

// surgeonPool is exactly the required surgeon when one was named, else every
// active surgeon in (name, id) order.
func (s *Service) surgeonPool(ctx context.Context, req *EmergencyRequest) ([]*surgery.Surgeon, error) {
	if req.RequiredSurgeonID != nil {
		sg, err := s.deps.Surgeons.GetByID(ctx, *req.RequiredSurgeonID)
		if err != nil {
			return nil, &PersistenceError{Op: "load required surgeon", Err: err}
		}
		return []*surgery.Surgeon{sg}, nil
	}
	surgeons, err := s.deps.Surgeons.ListActive(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load surgeon pool", Err: err}
	}
	sort.SliceStable(surgeons, func(i, j int) bool {
		if surgeons[i].Name != surgeons[j].Name {
			return surgeons[i].Name < surgeons[j].Name
		}
		return surgeons[i].ID.String() < surgeons[j].ID.String()
	})
	return surgeons, nil
}

// apply commits the winning tactic: clear every bumped case, then write the
// new assignment and bind the emergency surgery. All writes share the
// caller's transaction, so either everything lands or nothing does.
func (s *Service) apply(ctx context.Context, surgeryID uuid.UUID, day time.Time, res tacticResult) error {
	for _, b := range res.bumped {
		if err := s.deps.Assignments.DeleteBySurgery(ctx, b.SurgeryID); err != nil {
			return &PersistenceError{Op: "clear bumped assignment", Err: err}
		}
		if err := s.deps.Surgeries.ClearSchedule(ctx, b.SurgeryID); err != nil {
			return &PersistenceError{Op: "reset bumped surgery", Err: err}
		}
	}

	p := res.placement
	a := &Assignment{
		ScheduleDate: day,
		RoomID:       p.RoomID,
		SurgeryID:    surgeryID,
		SurgeonID:    p.SurgeonID,
		StartTime:    p.StartTime,
		EndTime:      p.EndTime,
	}
	if err := s.deps.Assignments.Create(ctx, a); err != nil {
		return &PersistenceError{Op: "create emergency assignment", Err: err}
	}
	if err := s.deps.Surgeries.SetSchedule(ctx, surgeryID, p.RoomID, p.SurgeonID, p.StartTime, p.EndTime); err != nil {
		return &PersistenceError{Op: "bind emergency surgery", Err: err}
	}
	return nil
}

func buildOutcome(surgeryID uuid.UUID, req *EmergencyRequest, res tacticResult, tactic string) *InsertionOutcome {
	out := &InsertionOutcome{
		SurgeryID:        surgeryID,
		Success:          res.ok(),
		Tactic:           tactic,
		OvertimeRequired: res.overtime,
		Conflicts:        res.conflicts,
	}
	if !res.ok() {
		out.FailureReason = res.reason
		return out
	}

	out.Placement = res.placement
	for _, b := range res.bumped {
		out.BumpedSurgeryIDs = append(out.BumpedSurgeryIDs, b.SurgeryID)
	}
	out.WaitMins = waitMins(req.ArrivalTime, res.placement.StartTime)
	out.DisruptionScore = disruptionScore(len(res.bumped), len(res.conflicts), res.overtime)
	return out
}

// notifyAfterCommit fans out the post-commit notifications: the covering
// surgeon hears about the new case, every bumped surgeon hears about the
// displacement, and a manual-review escalation goes to the scheduling desk.
// Delivery is best-effort; the dispatcher logs its own failures.
func (s *Service) notifyAfterCommit(req *EmergencyRequest, res tacticResult, out *InsertionOutcome, roomName map[uuid.UUID]string) []uuid.UUID {
	if s.deps.Notifier == nil || s.deps.Templates == nil {
		return nil
	}

	var notified []uuid.UUID

	if res.ok() {
		p := res.placement
		data := map[string]string{
			"room":    roomLabel(roomName, p.RoomID),
			"start":   p.StartTime.Format("15:04"),
			"end":     p.EndTime.Format("15:04"),
			"patient": req.PatientID.String(),
		}
		templateID := "emergency-scheduled"
		if res.overtime {
			templateID = "overtime-notice"
		}
		if subject, body, channel, err := s.deps.Templates.Render(templateID, data); err == nil {
			s.deps.Notifier.Send(p.SurgeonID.String(), subject, body, channel, notification.PriorityUrgent,
				map[string]string{"surgery_id": out.SurgeryID.String()})
			notified = append(notified, p.SurgeonID)
		}

		for _, b := range res.bumped {
			data := map[string]string{
				"room":  roomLabel(roomName, b.RoomID),
				"start": b.StartTime.Format("15:04"),
			}
			if subject, body, channel, err := s.deps.Templates.Render("surgery-bumped", data); err == nil {
				s.deps.Notifier.Send(b.SurgeonID.String(), subject, body, channel, notification.PriorityHigh,
					map[string]string{"surgery_id": b.SurgeryID.String()})
				notified = append(notified, b.SurgeonID)
			}
		}
		return notified
	}

	if res.manualReview {
		data := map[string]string{"patient": req.PatientID.String()}
		if subject, body, channel, err := s.deps.Templates.Render("manual-review-needed", data); err == nil {
			s.deps.Notifier.Send("scheduling-desk", subject, body, channel, notification.PriorityMedium,
				map[string]string{"surgery_id": out.SurgeryID.String()})
		}
	}
	return notified
}

func (s *Service) recordAudit(out *InsertionOutcome, req *EmergencyRequest) {
	if s.deps.Audit == nil {
		return
	}
	detail := map[string]interface{}{
		"success":          out.Success,
		"tactic":           out.Tactic,
		"tier":             string(req.Tier),
		"overtime":         out.OvertimeRequired,
		"bumped_count":     len(out.BumpedSurgeryIDs),
		"disruption_score": out.DisruptionScore,
	}
	if !out.Success {
		detail["failure_reason"] = out.FailureReason
	}
	s.deps.Audit.Record(context.Background(), "emergency_insertion", "surgery", out.SurgeryID, detail)
}

func roomLabel(names map[uuid.UUID]string, id uuid.UUID) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id.String()
}

// scheduleDay truncates a timestamp to its UTC calendar day.
func scheduleDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
