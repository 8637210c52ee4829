package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"unipass/internal/exeat"
	"unipass/internal/gate"
	"unipass/internal/penalty"
	"unipass/internal/platform/middleware"
	"unipass/internal/transport/http/mocks"
	"unipass/pkg/domain"
	dErrors "unipass/pkg/domain-errors"
	"unipass/pkg/requestcontext"
)

// fakeVerifier treats the bearer token as "role/subject" so tests can mint
// arbitrary callers without real signatures.
type fakeVerifier struct{}

func (fakeVerifier) VerifyCallerToken(token string) (*middleware.CallerClaims, error) {
	role, subject, ok := strings.Cut(token, "/")
	if !ok {
		return nil, errors.New("malformed test token")
	}
	return &middleware.CallerClaims{SubjectID: subject, Role: requestcontext.Role(role)}, nil
}

type routerFixture struct {
	exeats    *mocks.MockExeatService
	gates     *mocks.MockGateService
	penalties *mocks.MockPenaltyService
	handler   http.Handler
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &routerFixture{
		exeats:    mocks.NewMockExeatService(ctrl),
		gates:     mocks.NewMockGateService(ctrl),
		penalties: mocks.NewMockPenaltyService(ctrl),
	}
	f.handler = NewRouter(Deps{
		Exeats:    f.exeats,
		Gate:      f.gates,
		Penalties: f.penalties,
		QR:        func(string, int) ([]byte, error) { return []byte("png-bytes"), nil },
		Verifier:  fakeVerifier{},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return f
}

func (f *routerFixture) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func sampleExeat(studentID domain.StudentID) *exeat.Request {
	departure := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	return &exeat.Request{
		ID:          domain.NewExeatID(),
		StudentID:   studentID,
		StudentName: "Ada Obi",
		Reason:      "family visit",
		DepartureAt: departure,
		ReturnAt:    departure.Add(12 * time.Hour),
		Status:      exeat.StatusPendingParentApproval,
		CreatedAt:   departure.Add(-48 * time.Hour),
		UpdatedAt:   departure.Add(-48 * time.Hour),
	}
}

func TestCreateExeat(t *testing.T) {
	f := newRouterFixture(t)
	studentID := domain.StudentID(uuid.New())
	created := sampleExeat(studentID)
	f.exeats.EXPECT().Create(gomock.Any(), gomock.Any()).Return(created, nil)

	rec := f.do(t, http.MethodPost, "/exeats", "student/"+studentID.String(), map[string]any{
		"student_name": "Ada Obi",
		"reason":       "family visit",
		"departure_at": "2024-03-01T08:00:00Z",
		"return_at":    "2024-03-01T20:00:00Z",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var body exeatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, created.ID.String(), body.ID)
	assert.Equal(t, "pending_parent_approval", body.Status)
	assert.False(t, body.HasCredential)
}

func TestCreateExeatRequiresAuth(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(t, http.MethodPost, "/exeats", "", map[string]any{"reason": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateExeatRequiresStudentRole(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(t, http.MethodPost, "/exeats", "dean/"+uuid.NewString(),
		map[string]any{"reason": "x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateExeatInvalidWindow(t *testing.T) {
	f := newRouterFixture(t)
	studentID := domain.StudentID(uuid.New())
	f.exeats.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeInvalidWindow, "departure must be before return"))

	rec := f.do(t, http.MethodPost, "/exeats", "student/"+studentID.String(), map[string]any{
		"reason":       "family visit",
		"departure_at": "2024-03-01T20:00:00Z",
		"return_at":    "2024-03-01T08:00:00Z",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid_window", body.Error)
}

func TestGetExeat(t *testing.T) {
	f := newRouterFixture(t)
	studentID := domain.StudentID(uuid.New())
	req := sampleExeat(studentID)
	f.exeats.EXPECT().Get(gomock.Any(), req.ID).Return(req, nil)

	rec := f.do(t, http.MethodGet, "/exeats/"+req.ID.String(),
		"dean/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetExeatNotFound(t *testing.T) {
	f := newRouterFixture(t)
	id := domain.NewExeatID()
	f.exeats.EXPECT().Get(gomock.Any(), id).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "exeat not found"))

	rec := f.do(t, http.MethodGet, "/exeats/"+id.String(),
		"dean/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetExeatRejectsBadID(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(t, http.MethodGet, "/exeats/not-a-uuid",
		"dean/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParentDecision(t *testing.T) {
	f := newRouterFixture(t)
	studentID := domain.StudentID(uuid.New())
	req := sampleExeat(studentID)
	updated := *req
	updated.Status = exeat.StatusPendingDeanApproval
	f.exeats.EXPECT().DecideParent(gomock.Any(), req.ID, true).Return(&updated, nil)

	rec := f.do(t, http.MethodPost, "/exeats/"+req.ID.String()+"/parent-decision",
		"parent/"+uuid.NewString(), map[string]any{"approve": true})

	require.Equal(t, http.StatusOK, rec.Code)
	var body exeatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "pending_dean_approval", body.Status)
}

func TestDecisionConflictEchoesCurrentState(t *testing.T) {
	f := newRouterFixture(t)
	studentID := domain.StudentID(uuid.New())
	current := sampleExeat(studentID)
	current.Status = exeat.StatusDenied
	f.exeats.EXPECT().DecideDean(gomock.Any(), current.ID, true).
		Return(current, dErrors.New(dErrors.CodeInvalidTransition, "exeat is in status denied"))

	rec := f.do(t, http.MethodPost, "/exeats/"+current.ID.String()+"/dean-decision",
		"dean/"+uuid.NewString(), map[string]any{"approve": true})

	require.Equal(t, http.StatusConflict, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid_transition", body.Error)
	assert.Equal(t, "denied", body.Status)
}

func TestCredentialPNG(t *testing.T) {
	f := newRouterFixture(t)
	studentID := domain.StudentID(uuid.New())
	req := sampleExeat(studentID)
	req.Status = exeat.StatusApproved
	req.CredentialToken = "signed-token"
	f.exeats.EXPECT().Get(gomock.Any(), req.ID).Return(req, nil)

	rec := f.do(t, http.MethodGet, "/exeats/"+req.ID.String()+"/credential.png",
		"student/"+studentID.String(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", rec.Body.String())
}

func TestCredentialPNGWithoutCredential(t *testing.T) {
	f := newRouterFixture(t)
	studentID := domain.StudentID(uuid.New())
	req := sampleExeat(studentID)
	f.exeats.EXPECT().Get(gomock.Any(), req.ID).Return(req, nil)

	rec := f.do(t, http.MethodGet, "/exeats/"+req.ID.String()+"/credential.png",
		"student/"+studentID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGateScan(t *testing.T) {
	f := newRouterFixture(t)
	staffID := domain.StaffID(uuid.New())
	exeatID := domain.NewExeatID()
	f.gates.EXPECT().Scan(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in gate.ScanInput) (*gate.Activity, error) {
			assert.Equal(t, "signed-token", in.Token)
			assert.Equal(t, gate.TypeExit, in.Type)
			assert.Equal(t, staffID, in.StaffID)
			return &gate.Activity{
				ID:         domain.NewActivityID(),
				ExeatID:    exeatID,
				StaffID:    in.StaffID,
				Type:       in.Type,
				RecordedAt: time.Now(),
				Result:     gate.ResultValid,
			}, nil
		})

	rec := f.do(t, http.MethodPost, "/gate/scan", "security/"+staffID.String(),
		map[string]any{"token": "signed-token", "type": "exit"})

	require.Equal(t, http.StatusOK, rec.Code)
	var body activityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "valid", body.Result)
	assert.Equal(t, exeatID.String(), body.ExeatID)
}

// A token that does not decode is still a judged scan: the caller gets the
// recorded activity back, not a bare error.
func TestGateScanMalformedToken(t *testing.T) {
	f := newRouterFixture(t)
	staffID := domain.StaffID(uuid.New())
	f.gates.EXPECT().Scan(gomock.Any(), gomock.Any()).
		Return(&gate.Activity{
			ID:         domain.NewActivityID(),
			StaffID:    staffID,
			Type:       gate.TypeExit,
			RecordedAt: time.Now(),
			Result:     gate.ResultInvalid,
			Note:       "malformed credential",
		}, nil)

	rec := f.do(t, http.MethodPost, "/gate/scan", "security/"+staffID.String(),
		map[string]any{"token": "garbage", "type": "exit"})

	require.Equal(t, http.StatusOK, rec.Code)
	var body activityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid", body.Result)
	assert.Equal(t, "malformed credential", body.Note)
	assert.Empty(t, body.ExeatID)
	assert.NotEmpty(t, body.ID)
}

func TestGateScanRequiresSecurityRole(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(t, http.MethodPost, "/gate/scan",
		"student/"+uuid.NewString(),
		map[string]any{"token": "x", "type": "exit"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListActivities(t *testing.T) {
	f := newRouterFixture(t)
	exeatID := domain.NewExeatID()
	f.gates.EXPECT().Activities(gomock.Any(), exeatID).Return([]*gate.Activity{
		{
			ID:         domain.NewActivityID(),
			ExeatID:    exeatID,
			StaffID:    domain.StaffID(uuid.New()),
			Type:       gate.TypeExit,
			RecordedAt: time.Now(),
			Result:     gate.ResultValid,
		},
	}, nil)

	rec := f.do(t, http.MethodGet, "/exeats/"+exeatID.String()+"/activities",
		"security/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body []activityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "exit", body[0].Type)
}

func TestMarkPenaltyPaid(t *testing.T) {
	f := newRouterFixture(t)
	paidAt := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	p := &penalty.Penalty{
		ID:        domain.NewPenaltyID(),
		StudentID: domain.StudentID(uuid.New()),
		ExeatID:   domain.NewExeatID(),
		Cause:     penalty.CauseOverdue,
		Amount:    5000_00,
		Status:    penalty.StatusPaid,
		CreatedAt: paidAt.Add(-96 * time.Hour),
		PaidAt:    &paidAt,
	}
	f.penalties.EXPECT().MarkPaid(gomock.Any(), p.ID).Return(p, nil)

	rec := f.do(t, http.MethodPost, "/penalties/"+p.ID.String()+"/paid",
		"admin/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body penaltyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "paid", body.Status)
	require.NotNil(t, body.PaidAt)
}

func TestMarkPenaltyPaidConflict(t *testing.T) {
	f := newRouterFixture(t)
	id := domain.NewPenaltyID()
	f.penalties.EXPECT().MarkPaid(gomock.Any(), id).
		Return(nil, dErrors.New(dErrors.CodeInvalidTransition, "penalty is already paid"))

	rec := f.do(t, http.MethodPost, "/penalties/"+id.String()+"/paid",
		"admin/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMarkPenaltyPaidRequiresAdmin(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(t, http.MethodPost, "/penalties/"+domain.NewPenaltyID().String()+"/paid",
		"dean/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHealthz(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		f := newRouterFixture(t)
		rec := f.do(t, http.MethodGet, "/healthz", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unhealthy dependency", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		handler := NewRouter(Deps{
			Exeats:    mocks.NewMockExeatService(ctrl),
			Gate:      mocks.NewMockGateService(ctrl),
			Penalties: mocks.NewMockPenaltyService(ctrl),
			QR:        func(string, int) ([]byte, error) { return nil, nil },
			Verifier:  fakeVerifier{},
			Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
			Health: []HealthCheck{
				func(context.Context) error { return errors.New("db down") },
			},
		})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
