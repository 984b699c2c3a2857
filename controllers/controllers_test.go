package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/lead_management_backend/middleware"
	"github.com/HSouheill/lead_management_backend/models"
	"github.com/HSouheill/lead_management_backend/repositories"
	"github.com/HSouheill/lead_management_backend/services"
	"github.com/HSouheill/lead_management_backend/utils"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

type testServer struct {
	e       *echo.Echo
	store   *repositories.MemoryStore
	metrics *middleware.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := repositories.NewMemoryStore()
	validate := utils.NewValidator()
	metrics := middleware.NewMetrics()

	agents := NewAgentController(services.NewAgentService(store, validate, services.WithAgentClock(clock)), metrics)
	leads := NewLeadController(services.NewLeadService(store, store, validate, services.WithLeadClock(clock)), metrics)
	comments := NewCommentController(services.NewCommentService(store, store, store, validate, services.WithCommentClock(clock)), metrics)

	e := echo.New()
	e.POST("/agents", agents.CreateAgent)
	e.GET("/agents", agents.GetAgents)
	e.DELETE("/agents/:agentId", agents.DeleteAgent)
	e.POST("/leads", leads.CreateLead)
	e.GET("/leads", leads.GetLeads)
	e.GET("/leads/:leadId", leads.GetLead)
	e.POST("/leads/:leadId", leads.UpdateLead)
	e.DELETE("/leads/:leadId", leads.DeleteLead)
	e.POST("/leads/:leadId/comments", comments.CreateComment)
	e.GET("/leads/:leadId/comments", comments.GetComments)
	e.GET("/report/last-week", leads.GetLastWeekReport)
	e.GET("/metrics", metrics.Handler())

	return &testServer{e: e, store: store, metrics: metrics}
}

func (s *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) seedAgent(t *testing.T, name, email string) models.SalesAgent {
	t.Helper()
	agent := models.SalesAgent{Name: name, Email: email, CreatedAt: testNow}
	require.NoError(t, s.store.InsertAgent(context.Background(), &agent))
	return agent
}

func leadBody(agentID string) string {
	return `{"name":"Acme","source":"Website","salesAgent":"` + agentID + `","status":"New","timeToClose":10,"priority":"Medium"}`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestCreateAgent(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/agents", `{"name":"Jane","email":"jane@x.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	agent := decode[map[string]any](t, rec)
	assert.Equal(t, "Jane", agent["name"])
	assert.Equal(t, "jane@x.com", agent["email"])
	assert.Len(t, agent["_id"], 24)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"duplicate email", `{"name":"Jane","email":"jane@x.com"}`, "Sales agent with email 'jane@x.com' already exists."},
		{"missing name", `{"email":"a@b.com"}`, "Name is required and must be a string"},
		{"bad email", `{"name":"A","email":"nope"}`, "Email is required and must be a valid email format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/agents", tt.body)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.JSONEq(t, `{"error":"`+tt.want+`"}`, rec.Body.String())
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/agents", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetAgents(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/agents", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"No agents found."}`, rec.Body.String())

	s.seedAgent(t, "Jane", "jane@x.com")
	rec = s.do(http.MethodGet, "/agents", "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, decode[[]models.SalesAgent](t, rec), 1)
}

func TestDeleteAgent(t *testing.T) {
	s := newTestServer(t)
	agent := s.seedAgent(t, "Jane", "jane@x.com")

	rec := s.do(http.MethodDelete, "/agents/"+agent.ID.Hex(), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, id := range []string{agent.ID.Hex(), "garbage"} {
		rec = s.do(http.MethodDelete, "/agents/"+id, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"No agent delete."}`, rec.Body.String())
	}
}

func TestCreateLead_Statuses(t *testing.T) {
	s := newTestServer(t)
	agent := s.seedAgent(t, "Jane", "jane@x.com")
	id := agent.ID.Hex()
	missing := primitive.NewObjectID().Hex()

	tests := []struct {
		name string
		body string
		code int
	}{
		{"created", leadBody(id), http.StatusCreated},
		{"missing name", `{"source":"Website","salesAgent":"` + id + `","timeToClose":10,"priority":"Medium"}`, http.StatusNotFound},
		{"bad source", `{"name":"A","source":"Fax","salesAgent":"` + id + `","timeToClose":10,"priority":"Medium"}`, http.StatusNotFound},
		{"malformed agent", `{"name":"A","source":"Website","salesAgent":"123","timeToClose":10,"priority":"Medium"}`, http.StatusBadRequest},
		{"unknown agent", leadBody(missing), http.StatusNotFound},
		{"bad status", `{"name":"A","source":"Website","salesAgent":"` + id + `","status":"Lost","timeToClose":10,"priority":"Medium"}`, http.StatusBadRequest},
		{"bad timeToClose", `{"name":"A","source":"Website","salesAgent":"` + id + `","timeToClose":-1,"priority":"Medium"}`, http.StatusBadRequest},
		{"bad priority", `{"name":"A","source":"Website","salesAgent":"` + id + `","timeToClose":10,"priority":"Urgent"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/leads", tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}

	rec := s.do(http.MethodPost, "/leads", leadBody(missing))
	assert.JSONEq(t, `{"error":"Sales agent with ID '`+missing+`' not found."}`, rec.Body.String())
}

func TestCreate_WrongJSONTypes(t *testing.T) {
	s := newTestServer(t)
	agent := s.seedAgent(t, "Jane", "jane@x.com")
	id := agent.ID.Hex()

	tests := []struct {
		name   string
		target string
		body   string
		code   int
		want   string
	}{
		{"agent numeric name", "/agents", `{"name":123,"email":"john@x.com"}`,
			http.StatusNotFound, "Name is required and must be a string"},
		{"agent numeric email", "/agents", `{"name":"John","email":42}`,
			http.StatusNotFound, "Email is required and must be a valid email format"},
		{"agent null name", "/agents", `{"name":null,"email":"john@x.com"}`,
			http.StatusNotFound, "Name is required and must be a string"},
		{"lead array name", "/leads", `{"name":["x"],"source":"Website","salesAgent":"` + id + `","timeToClose":10,"priority":"High"}`,
			http.StatusNotFound, "Name is required and must be a string"},
		{"lead empty name wins over string timeToClose", "/leads", `{"name":"","source":"Website","salesAgent":"` + id + `","timeToClose":"10","priority":"High"}`,
			http.StatusNotFound, "Name is required and must be a string"},
		{"lead numeric source", "/leads", `{"name":"A","source":7,"salesAgent":"` + id + `","timeToClose":10,"priority":"High"}`,
			http.StatusNotFound, "source is required and must be one of the predefined values"},
		{"lead numeric salesAgent", "/leads", `{"name":"A","source":"Website","salesAgent":123,"timeToClose":10,"priority":"High"}`,
			http.StatusBadRequest, "Sales agent ID '123' is not a valid ObjectId."},
		{"lead string timeToClose", "/leads", `{"name":"A","source":"Website","salesAgent":"` + id + `","timeToClose":"10","priority":"High"}`,
			http.StatusBadRequest, "timeToClose must be a positive integer."},
		{"lead boolean priority", "/leads", `{"name":"A","source":"Website","salesAgent":"` + id + `","timeToClose":10,"priority":true}`,
			http.StatusBadRequest, "priority must be one of High, Medium, Low."},
		{"lead string tags", "/leads", `{"name":"A","source":"Website","salesAgent":"` + id + `","timeToClose":10,"priority":"High","tags":"vip"}`,
			http.StatusBadRequest, "tags must be an array of strings."},
		{"update numeric name", "/leads/" + primitive.NewObjectID().Hex(), `{"name":123}`,
			http.StatusBadRequest, "Name is required and must be a string"},
		{"comment numeric text", "/leads/" + primitive.NewObjectID().Hex() + "/comments", `{"author":"` + id + `","text":5}`,
			http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
			if tt.want != "" {
				assert.JSONEq(t, `{"error":"`+tt.want+`"}`, rec.Body.String())
			}
		})
	}

	t.Run("comment numeric text on a real lead", func(t *testing.T) {
		created := decode[models.Lead](t, s.do(http.MethodPost, "/leads", leadBody(id)))
		rec := s.do(http.MethodPost, "/leads/"+created.ID.Hex()+"/comments", `{"author":"`+id+`","text":5}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"text is required and must be a string"}`, rec.Body.String())
	})

	for _, body := range []string{`[1,2]`, `"Jane"`, `{"name":`} {
		rec := s.do(http.MethodPost, "/agents", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.JSONEq(t, `{"error":"Invalid request body"}`, rec.Body.String(), body)
	}
}

func TestLeadLifecycle(t *testing.T) {
	s := newTestServer(t)
	agent := s.seedAgent(t, "Jane", "jane@x.com")

	rec := s.do(http.MethodPost, "/leads", leadBody(agent.ID.Hex()))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[models.Lead](t, rec)

	rec = s.do(http.MethodGet, "/leads/"+created.ID.Hex(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[map[string]any](t, rec)
	salesAgent, ok := view["salesAgent"].(map[string]any)
	require.True(t, ok, "salesAgent must be populated")
	assert.Equal(t, "Jane", salesAgent["name"])
	assert.Equal(t, float64(10), view["timeToClose"])

	rec = s.do(http.MethodPost, "/leads/"+created.ID.Hex(), `{"status":"Closed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[models.Lead](t, rec)
	assert.Equal(t, models.StatusClosed, updated.Status)
	require.NotNil(t, updated.ClosedAt)

	rec = s.do(http.MethodPost, "/leads/"+created.ID.Hex(), `{"priority":"Urgent"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/report/last-week", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Lead](t, rec), 1)

	rec = s.do(http.MethodDelete, "/leads/"+created.ID.Hex(), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/leads/"+created.ID.Hex(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"No lead found."}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/leads/"+created.ID.Hex(), `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/leads/"+created.ID.Hex(), "")
	assert.JSONEq(t, `{"error":"No lead delete."}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/report/last-week", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetLeads(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/leads", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"No leads found."}`, rec.Body.String())

	agent := s.seedAgent(t, "Jane", "jane@x.com")
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/leads", leadBody(agent.ID.Hex())).Code)

	rec = s.do(http.MethodGet, "/leads?source=Website&salesAgent="+agent.ID.Hex(), "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, decode[[]models.LeadView](t, rec), 1)

	rec = s.do(http.MethodGet, "/leads?source=Email", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/leads?salesAgent=bad", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComments(t *testing.T) {
	s := newTestServer(t)
	agent := s.seedAgent(t, "Jane", "jane@x.com")
	created := decode[models.Lead](t, s.do(http.MethodPost, "/leads", leadBody(agent.ID.Hex())))
	path := "/leads/" + created.ID.Hex() + "/comments"

	rec := s.do(http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"No comments found."}`, rec.Body.String())

	rec = s.do(http.MethodPost, path, `{"author":"`+agent.ID.Hex()+`","text":"Called."}`)
	require.Equal(t, http.StatusOK, rec.Code)
	comment := decode[models.Comment](t, rec)
	assert.Equal(t, "Called.", comment.Text)

	rec = s.do(http.MethodPost, path, `{"author":"`+agent.ID.Hex()+`"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"text is required and must be a string"}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/leads/bad/comments", `{"author":"`+agent.ID.Hex()+`","text":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	views := decode[[]map[string]any](t, rec)
	require.Len(t, views, 1)
	assert.Equal(t, "Jane", views[0]["author"].(map[string]any)["name"])
	assert.Equal(t, "Acme", views[0]["lead"].(map[string]any)["name"])

	rec = s.do(http.MethodGet, "/leads/bad/comments", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRejectedWritesAreCounted(t *testing.T) {
	s := newTestServer(t)

	s.do(http.MethodPost, "/agents", `{"email":"a@b.com"}`)
	s.do(http.MethodPost, "/agents", `{"name":"Jane","email":"jane@x.com"}`)

	body := s.do(http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, body, `leadapi_rejected_writes_total{entity="agent",reason="name"} 1`)
	assert.Contains(t, body, `leadapi_entities_created_total{entity="agent"} 1`)
}

var errDown = errors.New("server selection timeout")

type brokenLeads struct{}

func (brokenLeads) Create(context.Context, models.CreateLeadRequest) (*models.Lead, error) {
	return nil, errDown
}
func (brokenLeads) List(context.Context, models.LeadFilter) ([]models.LeadView, error) {
	return nil, errDown
}
func (brokenLeads) Get(context.Context, string) (*models.LeadView, error) { return nil, errDown }
func (brokenLeads) Update(context.Context, string, models.UpdateLeadRequest) (*models.Lead, error) {
	return nil, errDown
}
func (brokenLeads) Delete(context.Context, string) (*models.Lead, error) { return nil, errDown }
func (brokenLeads) LastWeekClosed(context.Context) ([]models.Lead, error) {
	return nil, errDown
}

func TestStoreFailureIsGeneric(t *testing.T) {
	lc := NewLeadController(brokenLeads{}, nil)
	e := echo.New()
	e.POST("/leads", lc.CreateLead)
	e.GET("/leads", lc.GetLeads)
	e.GET("/report/last-week", lc.GetLastWeekReport)

	for _, tt := range []struct{ method, target, want string }{
		{http.MethodPost, "/leads", "Failed to create lead."},
		{http.MethodGet, "/leads", "Failed to fetch leads."},
		{http.MethodGet, "/report/last-week", "Failed to fetch leads."},
	} {
		req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(`{}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"`+tt.want+`"}`, rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "server selection")
	}
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	e := echo.New()
	e.GET("/", NewHealthController(stubPinger{}).Root)
	e.GET("/up", NewHealthController(stubPinger{}).Health)
	e.GET("/down", NewHealthController(stubPinger{err: errDown}).Health)

	for _, tt := range []struct {
		target string
		code   int
		body   string
	}{
		{"/", http.StatusOK, `{"message":"this is lead management api"}`},
		{"/up", http.StatusOK, `{"status":"healthy","database":"connected"}`},
		{"/down", http.StatusServiceUnavailable, `{"status":"unhealthy","database":"disconnected"}`},
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
		assert.Equal(t, tt.code, rec.Code, tt.target)
		assert.JSONEq(t, tt.body, rec.Body.String(), tt.target)
	}
}
