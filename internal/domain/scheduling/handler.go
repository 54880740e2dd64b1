package scheduling

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/emergency-insertions", h.InsertEmergency)
	api.GET("/schedule", h.GetDaySchedule)
}

// emergencyInsertionRequest is the wire shape for one emergency arrival.
type emergencyInsertionRequest struct {
	PatientID           uuid.UUID  `json:"patient_id"`
	SurgeryTypeID       uuid.UUID  `json:"surgery_type_id"`
	DurationMins        int        `json:"duration_mins"`
	ArrivalTime         *time.Time `json:"arrival_time,omitempty"`
	PriorityTier        string     `json:"priority_tier"`
	RequiredSurgeonID   *uuid.UUID `json:"required_surgeon_id,omitempty"`
	PreferredStart      *time.Time `json:"preferred_start,omitempty"`
	RoomType            *string    `json:"room_type,omitempty"`
	AllowBumping        *bool      `json:"allow_bumping,omitempty"`
	AllowOvertime       *bool      `json:"allow_overtime,omitempty"`
	AllowBackupRooms    *bool      `json:"allow_backup_rooms,omitempty"`
	MaxWaitOverrideMins *int       `json:"max_wait_override_mins,omitempty"`
}

// InsertEmergency runs the insertion engine. A failed insertion is still a
// 200: the outcome body carries success=false and the reason, which is what
// the scheduling desk acts on.
func (h *Handler) InsertEmergency(c echo.Context) error {
	var body emergencyInsertionRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tier, err := ParseTier(body.PriorityTier)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	req := &EmergencyRequest{
		PatientID:           body.PatientID,
		SurgeryTypeID:       body.SurgeryTypeID,
		DurationMins:        body.DurationMins,
		Tier:                tier,
		RequiredSurgeonID:   body.RequiredSurgeonID,
		PreferredStart:      body.PreferredStart,
		RoomType:            body.RoomType,
		AllowBumping:        boolOr(body.AllowBumping, true),
		AllowOvertime:       boolOr(body.AllowOvertime, true),
		AllowBackupRooms:    boolOr(body.AllowBackupRooms, true),
		MaxWaitOverrideMins: body.MaxWaitOverrideMins,
	}
	if body.ArrivalTime != nil {
		req.ArrivalTime = *body.ArrivalTime
	}

	outcome, err := h.svc.HandleEmergency(c.Request().Context(), req)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, outcome)
}

func (h *Handler) GetDaySchedule(c echo.Context) error {
	raw := c.QueryParam("date")
	if raw == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date query parameter is required")
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	items, err := h.svc.DaySchedule(c.Request().Context(), date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"date":        raw,
		"assignments": items,
	})
}

func boolOr(v *bool, def bool) bool {
	if v != nil {
		return *v
	}
	return def
}
