package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"auradash/internal/hardware"
	"auradash/internal/logger"
	"auradash/internal/models"
	"auradash/internal/notify"
	"auradash/internal/service"

	"github.com/gin-gonic/gin"
)

type handlerFixture struct {
	router    *gin.Engine
	syncer    *mockSyncer
	scheduler *mockScheduler
	alerts    *mockAlerts
	discovery *mockDiscovery
	inventory *mockInventory
	schedules *mockSchedules
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fx := &handlerFixture{
		syncer:    &mockSyncer{},
		scheduler: &mockScheduler{},
		alerts:    &mockAlerts{},
		discovery: &mockDiscovery{},
		inventory: &mockInventory{},
		schedules: &mockSchedules{},
	}
	services := &service.Service{
		Syncer:    fx.syncer,
		Scheduler: fx.scheduler,
		Alerts:    fx.alerts,
		Discovery: fx.discovery,
		Inventory: fx.inventory,
		Schedules: fx.schedules,
	}
	log := logger.Get(logger.ErrorLevel)
	h := NewHandler(services, notify.NewHub(log), log)
	fx.router = h.InitRoutes()
	return fx
}

func (fx *handlerFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	fx := newHandlerFixture(t)

	w := fx.do(t, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := decodeBody(t, w)["status"]; got != "ok" {
		t.Fatalf("status = %v", got)
	}
}

func TestListNodes(t *testing.T) {
	fx := newHandlerFixture(t)
	fx.inventory.nodes = []models.Node{
		{ID: 1, Name: "Fan 1"},
		{ID: 2, Name: "Light 1"},
	}

	w := fx.do(t, http.MethodGet, "/api/v1/nodes/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/v1/nodes/ = %d: %s", w.Code, w.Body.String())
	}
	if got := decodeBody(t, w)["count"]; got != float64(2) {
		t.Fatalf("count = %v, want 2", got)
	}
}

func TestToggleNode(t *testing.T) {
	fx := newHandlerFixture(t)

	w := fx.do(t, http.MethodPut, "/api/v1/nodes/3/state", gin.H{"state": "on"})
	if w.Code != http.StatusOK {
		t.Fatalf("PUT state = %d: %s", w.Code, w.Body.String())
	}
	if len(fx.syncer.toggled) != 1 || fx.syncer.toggled[0].NodeID != 3 || fx.syncer.toggled[0].State != "on" {
		t.Fatalf("toggles recorded = %+v", fx.syncer.toggled)
	}
}

func TestToggleNode_FailureIsBadGateway(t *testing.T) {
	fx := newHandlerFixture(t)
	fx.syncer.toggleErr = hardware.ErrUnreachable

	w := fx.do(t, http.MethodPut, "/api/v1/nodes/3/state", gin.H{"state": "on"})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("PUT state with unreachable server = %d, want 502", w.Code)
	}
}

func TestToggleNode_BadRequests(t *testing.T) {
	fx := newHandlerFixture(t)

	if w := fx.do(t, http.MethodPut, "/api/v1/nodes/abc/state", gin.H{"state": "on"}); w.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric id = %d, want 400", w.Code)
	}
	if w := fx.do(t, http.MethodPut, "/api/v1/nodes/3/state", gin.H{}); w.Code != http.StatusBadRequest {
		t.Fatalf("missing state = %d, want 400", w.Code)
	}
	if len(fx.syncer.toggled) != 0 {
		t.Fatalf("invalid requests reached the syncer: %+v", fx.syncer.toggled)
	}
}

func TestListAlerts_UnacknowledgedFilter(t *testing.T) {
	fx := newHandlerFixture(t)
	fx.alerts.alerts = []models.Alert{
		{ID: "a-1", Message: "overcurrent detected (20A)"},
		{ID: "a-2", Message: "running hot (85°C)", Acknowledged: true},
	}

	w := fx.do(t, http.MethodGet, "/api/v1/alerts/", nil)
	if got := decodeBody(t, w)["count"]; got != float64(2) {
		t.Fatalf("unfiltered count = %v, want 2", got)
	}

	w = fx.do(t, http.MethodGet, "/api/v1/alerts/?unacknowledged=true", nil)
	if got := decodeBody(t, w)["count"]; got != float64(1) {
		t.Fatalf("filtered count = %v, want 1", got)
	}
}

func TestAcknowledgeAlert(t *testing.T) {
	fx := newHandlerFixture(t)

	w := fx.do(t, http.MethodPost, "/api/v1/alerts/a-7/ack", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("POST ack = %d: %s", w.Code, w.Body.String())
	}
	if len(fx.alerts.ackIDs) != 1 || fx.alerts.ackIDs[0] != "a-7" {
		t.Fatalf("acked IDs = %v", fx.alerts.ackIDs)
	}
}

func TestScanServers(t *testing.T) {
	fx := newHandlerFixture(t)
	fx.discovery.found = 3

	w := fx.do(t, http.MethodPost, "/api/v1/servers/scan", gin.H{"local_address": "192.168.1.42"})
	if w.Code != http.StatusOK {
		t.Fatalf("POST scan = %d: %s", w.Code, w.Body.String())
	}
	if got := decodeBody(t, w)["found"]; got != float64(3) {
		t.Fatalf("found = %v, want 3", got)
	}
	if len(fx.discovery.addrs) != 1 || fx.discovery.addrs[0] != "192.168.1.42" {
		t.Fatalf("scan addresses = %v", fx.discovery.addrs)
	}
}

func TestScanServers_MissingAddress(t *testing.T) {
	fx := newHandlerFixture(t)

	if w := fx.do(t, http.MethodPost, "/api/v1/servers/scan", gin.H{}); w.Code != http.StatusBadRequest {
		t.Fatalf("POST scan without address = %d, want 400", w.Code)
	}
}

func TestCreateSchedule(t *testing.T) {
	fx := newHandlerFixture(t)

	w := fx.do(t, http.MethodPost, "/api/v1/schedules/", gin.H{
		"node_id": 2, "action": "on", "time": "07:30", "days": []string{"mon"}, "enabled": true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("POST schedule = %d: %s", w.Code, w.Body.String())
	}
	if len(fx.schedules.schedules) != 1 {
		t.Fatalf("schedules created = %d, want 1", len(fx.schedules.schedules))
	}
}

func TestDeleteSchedule(t *testing.T) {
	fx := newHandlerFixture(t)

	w := fx.do(t, http.MethodDelete, "/api/v1/schedules/4", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE schedule = %d: %s", w.Code, w.Body.String())
	}
	if len(fx.schedules.deleted) != 1 || fx.schedules.deleted[0] != 4 {
		t.Fatalf("deleted = %v", fx.schedules.deleted)
	}
}

func TestSyncLifecycleEndpoints(t *testing.T) {
	fx := newHandlerFixture(t)
	fx.scheduler.Start()

	w := fx.do(t, http.MethodPost, "/api/v1/sync/pause", nil)
	if got := decodeBody(t, w)["state"]; got != service.StatePaused {
		t.Fatalf("state after pause = %v", got)
	}

	w = fx.do(t, http.MethodPost, "/api/v1/sync/resume", nil)
	if got := decodeBody(t, w)["state"]; got != service.StateRunning {
		t.Fatalf("state after resume = %v", got)
	}

	w = fx.do(t, http.MethodGet, "/api/v1/sync/status", nil)
	if got := decodeBody(t, w)["state"]; got != service.StateRunning {
		t.Fatalf("status = %v", got)
	}
}

func TestRunSyncNow(t *testing.T) {
	fx := newHandlerFixture(t)

	w := fx.do(t, http.MethodPost, "/api/v1/sync/run", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("POST sync/run = %d: %s", w.Code, w.Body.String())
	}

	fx.syncer.runErr = hardware.ErrUnreachable
	w = fx.do(t, http.MethodPost, "/api/v1/sync/run", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("POST sync/run with failing pass = %d, want 500", w.Code)
	}
}
