package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"unipass/internal/penalty"
	"unipass/pkg/domain"
)

// PenaltyService is the penalty surface the transport depends on.
type PenaltyService interface {
	Get(ctx context.Context, id domain.PenaltyID) (*penalty.Penalty, error)
	ListByStudent(ctx context.Context, studentID domain.StudentID) ([]*penalty.Penalty, error)
	ListByExeat(ctx context.Context, exeatID domain.ExeatID) ([]*penalty.Penalty, error)
	MarkPaid(ctx context.Context, id domain.PenaltyID) (*penalty.Penalty, error)
}

type penaltyHandler struct {
	service PenaltyService
	logger  *slog.Logger
}

type penaltyResponse struct {
	ID        string     `json:"id"`
	StudentID string     `json:"student_id"`
	ExeatID   string     `json:"exeat_id"`
	Cause     string     `json:"cause"`
	Amount    int64      `json:"amount"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

func toPenaltyResponse(p *penalty.Penalty) penaltyResponse {
	return penaltyResponse{
		ID:        p.ID.String(),
		StudentID: p.StudentID.String(),
		ExeatID:   p.ExeatID.String(),
		Cause:     string(p.Cause),
		Amount:    p.Amount,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		PaidAt:    p.PaidAt,
	}
}

func (h *penaltyHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePenaltyID(chi.URLParam(r, "penaltyID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toPenaltyResponse(p))
}

func (h *penaltyHandler) listByExeat(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseExeatID(chi.URLParam(r, "exeatID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	penalties, err := h.service.ListByExeat(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.writeList(w, penalties)
}

func (h *penaltyHandler) listByStudent(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseStudentID(chi.URLParam(r, "studentID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	penalties, err := h.service.ListByStudent(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.writeList(w, penalties)
}

func (h *penaltyHandler) markPaid(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePenaltyID(chi.URLParam(r, "penaltyID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	p, err := h.service.MarkPaid(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toPenaltyResponse(p))
}

func (h *penaltyHandler) writeList(w http.ResponseWriter, penalties []*penalty.Penalty) {
	out := make([]penaltyResponse, 0, len(penalties))
	for _, p := range penalties {
		out = append(out, toPenaltyResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}
