package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"unipass/internal/gate"
	"unipass/pkg/domain"
	"unipass/pkg/requestcontext"
)

// GateService is the gate surface the transport depends on.
type GateService interface {
	Scan(ctx context.Context, in gate.ScanInput) (*gate.Activity, error)
	Activities(ctx context.Context, exeatID domain.ExeatID) ([]*gate.Activity, error)
}

type gateHandler struct {
	service GateService
	logger  *slog.Logger
}

type scanRequest struct {
	Token string `json:"token"`
	Type  string `json:"type"`
}

type activityResponse struct {
	ID         string    `json:"id"`
	ExeatID    string    `json:"exeat_id,omitempty"`
	StudentID  string    `json:"student_id,omitempty"`
	StaffID    string    `json:"staff_id"`
	Type       string    `json:"type"`
	RecordedAt time.Time `json:"recorded_at"`
	Result     string    `json:"result"`
	Note       string    `json:"note,omitempty"`
}

func toActivityResponse(a *gate.Activity) activityResponse {
	resp := activityResponse{
		ID:         a.ID.String(),
		StaffID:    a.StaffID.String(),
		Type:       string(a.Type),
		RecordedAt: a.RecordedAt,
		Result:     string(a.Result),
		Note:       a.Note,
	}
	if !a.ExeatID.IsZero() {
		resp.ExeatID = a.ExeatID.String()
	}
	if !a.StudentID.IsZero() {
		resp.StudentID = a.StudentID.String()
	}
	return resp
}

// scan judges one presented credential. A judged scan answers 200 whatever
// the verdict, an undecodable token included; the result field carries it.
// Only bad input or an infrastructure fault is an error.
func (h *gateHandler) scan(w http.ResponseWriter, r *http.Request) {
	var body scanRequest
	if !decodeBody(w, r, h.logger, &body) {
		return
	}
	staffID, err := domain.ParseStaffID(requestcontext.SubjectID(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	activity, err := h.service.Scan(r.Context(), gate.ScanInput{
		Token:   body.Token,
		Type:    gate.ActivityType(body.Type),
		StaffID: staffID,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toActivityResponse(activity))
}

func (h *gateHandler) listActivities(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseExeatID(chi.URLParam(r, "exeatID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	activities, err := h.service.Activities(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out := make([]activityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, toActivityResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}
