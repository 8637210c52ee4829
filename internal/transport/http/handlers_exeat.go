package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"unipass/internal/exeat"
	"unipass/pkg/domain"
	dErrors "unipass/pkg/domain-errors"
	"unipass/pkg/requestcontext"
)

// ExeatService is the exeat surface the transport depends on.
type ExeatService interface {
	Create(ctx context.Context, in exeat.NewRequest) (*exeat.Request, error)
	Get(ctx context.Context, id domain.ExeatID) (*exeat.Request, error)
	ListByStudent(ctx context.Context, studentID domain.StudentID) ([]*exeat.Request, error)
	DecideParent(ctx context.Context, id domain.ExeatID, approve bool) (*exeat.Request, error)
	DecideDean(ctx context.Context, id domain.ExeatID, approve bool) (*exeat.Request, error)
}

// QRRenderer renders a credential token as a PNG image.
type QRRenderer func(token string, size int) ([]byte, error)

type exeatHandler struct {
	service ExeatService
	qr      QRRenderer
	logger  *slog.Logger
}

type createExeatRequest struct {
	StudentName   string    `json:"student_name"`
	MatricNumber  string    `json:"matric_number"`
	Reason        string    `json:"reason"`
	DepartureAt   time.Time `json:"departure_at"`
	ReturnAt      time.Time `json:"return_at"`
	ParentContact string    `json:"parent_contact"`
}

type decisionRequest struct {
	Approve bool `json:"approve"`
}

type exeatResponse struct {
	ID               string     `json:"id"`
	StudentID        string     `json:"student_id"`
	StudentName      string     `json:"student_name"`
	MatricNumber     string     `json:"matric_number"`
	Reason           string     `json:"reason"`
	DepartureAt      time.Time  `json:"departure_at"`
	ReturnAt         time.Time  `json:"return_at"`
	ParentContact    string     `json:"parent_contact,omitempty"`
	Status           string     `json:"status"`
	ParentApprovedAt *time.Time `json:"parent_approved_at,omitempty"`
	DeanApprovedAt   *time.Time `json:"dean_approved_at,omitempty"`
	HasCredential    bool       `json:"has_credential"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func toExeatResponse(req *exeat.Request) exeatResponse {
	return exeatResponse{
		ID:               req.ID.String(),
		StudentID:        req.StudentID.String(),
		StudentName:      req.StudentName,
		MatricNumber:     req.MatricNumber,
		Reason:           req.Reason,
		DepartureAt:      req.DepartureAt,
		ReturnAt:         req.ReturnAt,
		ParentContact:    req.ParentContact,
		Status:           string(req.Status),
		ParentApprovedAt: req.ParentApprovedAt,
		DeanApprovedAt:   req.DeanApprovedAt,
		HasCredential:    req.CredentialToken != "",
		CreatedAt:        req.CreatedAt,
		UpdatedAt:        req.UpdatedAt,
	}
}

func (h *exeatHandler) create(w http.ResponseWriter, r *http.Request) {
	var body createExeatRequest
	if !decodeBody(w, r, h.logger, &body) {
		return
	}
	studentID, err := domain.ParseStudentID(requestcontext.SubjectID(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	created, err := h.service.Create(r.Context(), exeat.NewRequest{
		StudentID:     studentID,
		StudentName:   body.StudentName,
		MatricNumber:  body.MatricNumber,
		Reason:        body.Reason,
		DepartureAt:   body.DepartureAt,
		ReturnAt:      body.ReturnAt,
		ParentContact: body.ParentContact,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExeatResponse(created))
}

func (h *exeatHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.exeatID(w, r)
	if !ok {
		return
	}
	req, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toExeatResponse(req))
}

func (h *exeatHandler) listOwn(w http.ResponseWriter, r *http.Request) {
	studentID, err := domain.ParseStudentID(requestcontext.SubjectID(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	reqs, err := h.service.ListByStudent(r.Context(), studentID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out := make([]exeatResponse, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, toExeatResponse(req))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *exeatHandler) parentDecision(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.DecideParent)
}

func (h *exeatHandler) deanDecision(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.DecideDean)
}

func (h *exeatHandler) decide(w http.ResponseWriter, r *http.Request, apply func(context.Context, domain.ExeatID, bool) (*exeat.Request, error)) {
	id, ok := h.exeatID(w, r)
	if !ok {
		return
	}
	var body decisionRequest
	if !decodeBody(w, r, h.logger, &body) {
		return
	}
	updated, err := apply(r.Context(), id, body.Approve)
	if err != nil {
		current := ""
		if updated != nil {
			current = string(updated.Status)
		}
		writeErrorStatus(w, r, h.logger, err, current)
		return
	}
	writeJSON(w, http.StatusOK, toExeatResponse(updated))
}

// credentialPNG serves the approved exeat's credential as a QR image the
// student presents at the gate.
func (h *exeatHandler) credentialPNG(w http.ResponseWriter, r *http.Request) {
	id, ok := h.exeatID(w, r)
	if !ok {
		return
	}
	req, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if req.CredentialToken == "" {
		writeError(w, r, h.logger, dErrors.New(dErrors.CodeNotFound, "exeat has no credential"))
		return
	}
	png, err := h.qr(req.CredentialToken, 0)
	if err != nil {
		writeError(w, r, h.logger, dErrors.Wrap(dErrors.CodeInternal, "render credential", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *exeatHandler) exeatID(w http.ResponseWriter, r *http.Request) (domain.ExeatID, bool) {
	id, err := domain.ParseExeatID(chi.URLParam(r, "exeatID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return domain.ExeatID{}, false
	}
	return id, true
}
