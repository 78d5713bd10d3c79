package api_test

import (
	"alcyxob/training-planner/internal/api"
	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/metrics"
	"alcyxob/training-planner/internal/service"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

// Stubs embed the service interface so only the exercised methods need a body.

type trackerStub struct {
	service.CompletionTracker
	err      error
	gotOrg   primitive.ObjectID
	gotDay   int
	gotDone  bool
	backfill []domain.FormResponse
}

func (s *trackerStub) MarkDayCompleted(_ context.Context, orgID, planID primitive.ObjectID, dayOfWeek int, completed bool) (*domain.WeeklyPlan, error) {
	s.gotOrg, s.gotDay, s.gotDone = orgID, dayOfWeek, completed
	if s.err != nil {
		return nil, s.err
	}
	return &domain.WeeklyPlan{ID: planID, OrganizationID: orgID}, nil
}

func (s *trackerStub) EnsureFeedbackForEndedPlans(context.Context, primitive.ObjectID, primitive.ObjectID) ([]domain.FormResponse, error) {
	return s.backfill, s.err
}

type catalogStub struct {
	service.CatalogService
	gotOrg    primitive.ObjectID
	gotKind   domain.CatalogKind
	gotAuthor domain.Author
}

func (s *catalogStub) CreateItem(_ context.Context, orgID primitive.ObjectID, kind domain.CatalogKind, author domain.Author, name string) (*domain.CatalogItem, error) {
	s.gotOrg, s.gotKind, s.gotAuthor = orgID, kind, author
	return &domain.CatalogItem{ID: primitive.NewObjectID(), OrganizationID: orgID, Name: name, CreatedBy: author}, nil
}

type planStub struct {
	service.WeeklyPlanService
	gotClient *primitive.ObjectID
	gotUpdate service.WeeklyPlanUpdate
	exportErr error
}

func (s *planStub) UpdateWeeklyPlan(_ context.Context, orgID, planID primitive.ObjectID, _ domain.Author, update service.WeeklyPlanUpdate) (*service.PlanDetails, error) {
	s.gotUpdate = update
	return &service.PlanDetails{Plan: &domain.WeeklyPlan{ID: planID, OrganizationID: orgID}}, nil
}

func (s *planStub) DuplicateWeeklyPlan(_ context.Context, orgID, planID primitive.ObjectID, newClientID *primitive.ObjectID) (*service.PlanDetails, error) {
	s.gotClient = newClientID
	return &service.PlanDetails{Plan: &domain.WeeklyPlan{ID: primitive.NewObjectID(), OrganizationID: orgID}}, nil
}

func (s *planStub) ExportWeeklyPlan(context.Context, primitive.ObjectID, primitive.ObjectID) (*service.PlanExport, error) {
	return nil, s.exportErr
}

type testServer struct {
	router  *gin.Engine
	tracker *trackerStub
	catalog *catalogStub
	plans   *planStub
	org     primitive.ObjectID
}

func newTestServer() *testServer {
	manager, registry := metrics.NewTestManagerAndRegistry()
	ts := &testServer{
		router:  gin.New(),
		tracker: &trackerStub{},
		catalog: &catalogStub{},
		plans:   &planStub{},
		org:     primitive.NewObjectID(),
	}
	api.SetupRoutes(ts.router, api.Services{
		Completion:  ts.tracker,
		Catalogs:    ts.catalog,
		WeeklyPlans: ts.plans,
	}, manager, registry)
	return ts
}

func (ts *testServer) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(api.HeaderOrganizationID, ts.org.Hex())
	for k, v := range headers {
		if v == "" {
			req.Header.Del(k)
			continue
		}
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func TestPingAndMetrics(t *testing.T) {
	ts := newTestServer()

	w := ts.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "planner_test_request_duration_seconds")
}

func TestTenantMiddleware(t *testing.T) {
	ts := newTestServer()
	actor := primitive.NewObjectID()

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantAuthor domain.Author
	}{
		{
			name:       "missing organization",
			headers:    map[string]string{api.HeaderOrganizationID: ""},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed organization",
			headers:    map[string]string{api.HeaderOrganizationID: "not-an-id"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "organization acts by default",
			wantStatus: http.StatusCreated,
			wantAuthor: domain.Author{Kind: domain.AuthorOrganization, ID: &ts.org},
		},
		{
			name:       "actor without kind is an employee",
			headers:    map[string]string{api.HeaderActorID: actor.Hex()},
			wantStatus: http.StatusCreated,
			wantAuthor: domain.Author{Kind: domain.AuthorEmployee, ID: &actor},
		},
		{
			name:       "system actor",
			headers:    map[string]string{api.HeaderActorKind: "System"},
			wantStatus: http.StatusCreated,
			wantAuthor: domain.SystemAuthor(),
		},
		{
			name:       "malformed actor",
			headers:    map[string]string{api.HeaderActorID: "42"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown actor kind",
			headers:    map[string]string{api.HeaderActorID: actor.Hex(), api.HeaderActorKind: "robot"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.catalog.gotAuthor = domain.Author{}
			w := ts.do(http.MethodPost, "/api/v1/catalogs/equipment", `{"name": "Banco"}`, tt.headers)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusCreated {
				return
			}
			assert.Equal(t, tt.wantAuthor, ts.catalog.gotAuthor)
			assert.Equal(t, ts.org, ts.catalog.gotOrg)
			assert.Equal(t, domain.CatalogEquipment, ts.catalog.gotKind)
		})
	}
}

func TestServiceErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.NewValidationError("dayOfWeek", "must be between 0 and 6"), http.StatusBadRequest},
		{domain.NewReferenceError(domain.RefSessionExercise), http.StatusUnprocessableEntity},
		{domain.NewNotFoundError(domain.RefWeeklyPlan, "day 4 is not scheduled"), http.StatusNotFound},
		{domain.NewConflictError("only strength exercises are allowed"), http.StatusConflict},
		{fmt.Errorf("wrapped: %w", domain.NewNotFoundError(domain.RefWeeklyPlan, "gone")), http.StatusNotFound},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			ts := newTestServer()
			ts.tracker.err = tt.err
			w := ts.do(http.MethodPatch, "/api/v1/weekly-plans/"+primitive.NewObjectID().Hex()+"/mark-day", `{"dayOfWeek": 1, "completed": true}`, nil)
			assert.Equal(t, tt.want, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.want == http.StatusInternalServerError {
				assert.Equal(t, "Internal server error", body["error"])
			} else {
				assert.Equal(t, tt.err.Error(), body["error"])
			}
		})
	}
}

func TestMarkDay_Binding(t *testing.T) {
	ts := newTestServer()
	planPath := "/api/v1/weekly-plans/" + primitive.NewObjectID().Hex() + "/mark-day"

	w := ts.do(http.MethodPatch, planPath, `{"dayOfWeek": 0, "completed": false}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 0, ts.tracker.gotDay)
	assert.False(t, ts.tracker.gotDone)
	assert.Equal(t, ts.org, ts.tracker.gotOrg)

	w = ts.do(http.MethodPatch, planPath, `{"completed": true}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPatch, "/api/v1/weekly-plans/xyz/mark-day", `{"dayOfWeek": 1, "completed": true}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBackfill_EmptyListIsNotNull(t *testing.T) {
	ts := newTestServer()
	w := ts.do(http.MethodPost, "/api/v1/clients/"+primitive.NewObjectID().Hex()+"/form-responses/backfill", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"created": []}`, w.Body.String())
}

func TestDuplicateWeeklyPlan_OptionalBody(t *testing.T) {
	ts := newTestServer()
	path := "/api/v1/weekly-plans/" + primitive.NewObjectID().Hex() + "/duplicate"

	w := ts.do(http.MethodPost, path, "", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Nil(t, ts.plans.gotClient)

	client := primitive.NewObjectID()
	w = ts.do(http.MethodPost, path, fmt.Sprintf(`{"clientId": %q}`, client.Hex()), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, ts.plans.gotClient)
	assert.Equal(t, client, *ts.plans.gotClient)
}

func TestExportWeeklyPlan_Unavailable(t *testing.T) {
	ts := newTestServer()
	ts.plans.exportErr = service.ErrExportUnavailable
	w := ts.do(http.MethodPost, "/api/v1/weekly-plans/"+primitive.NewObjectID().Hex()+"/export", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUpdateWeeklyPlan_NullClearsOptionalReferences(t *testing.T) {
	ts := newTestServer()
	path := "/api/v1/weekly-plans/" + primitive.NewObjectID().Hex()
	form := primitive.NewObjectID()

	tests := []struct {
		name          string
		body          string
		wantClearForm bool
		wantClearEmp  bool
		wantForm      *primitive.ObjectID
	}{
		{name: "absent fields stay", body: `{"notes": "x"}`},
		{name: "null form template", body: `{"formTemplateId": null}`, wantClearForm: true},
		{name: "null employee", body: `{"employeeId": null}`, wantClearEmp: true},
		{name: "new form template", body: fmt.Sprintf(`{"formTemplateId": %q}`, form.Hex()), wantForm: &form},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.plans.gotUpdate = service.WeeklyPlanUpdate{}
			w := ts.do(http.MethodPut, path, tt.body, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			got := ts.plans.gotUpdate
			assert.Equal(t, tt.wantClearForm, got.ClearFormTemplate)
			assert.Equal(t, tt.wantClearEmp, got.ClearEmployee)
			assert.Equal(t, tt.wantForm, got.FormTemplateID)
			assert.Nil(t, got.EmployeeID)
		})
	}
}
