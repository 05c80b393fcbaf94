package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arkrelay/arkrelay/internal/relay"
)

// testGateway assembles a Gateway without going through the module lifecycle.
func testGateway(t *testing.T, auth AuthConfig, reg *relay.Registry) http.Handler {
	t.Helper()
	g := &Gateway{
		logger:    discardLogger(),
		metrics:   &Metrics{},
		startedAt: time.Now(),
		registry:  reg,
	}
	g.config.defaults()
	g.config.Auth = auth
	g.dispatcher = NewWebhookDispatcher(g.logger)
	return g.buildRouter()
}

func authedRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Authorization", "Bearer api-token")
	return req
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	reg := relay.NewRegistry()
	reg.Add(relay.Request{ID: "t1", Source: relay.Locator{Item: "golden-recs", Name: "side-a.flac"}, ChatID: 42}, func() {})
	reg.MarkActive("t1")
	router := testGateway(t, AuthConfig{}, reg)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("Status = %q, want %q", resp.Status, "ok")
	}
	if resp.ActiveTransfers != 1 {
		t.Errorf("ActiveTransfers = %d, want 1", resp.ActiveTransfers)
	}
}

func TestStatusEndpoint_RequiresAuth(t *testing.T) {
	t.Parallel()

	router := testGateway(t, AuthConfig{BearerToken: "api-token"}, relay.NewRegistry())

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(http.MethodGet, "/status"))

	if rr.Code != http.StatusOK {
		t.Fatalf("authenticated status = %d, want %d", rr.Code, http.StatusOK)
	}
	var resp StatusResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestAdminRoutesAbsentWithoutAuth(t *testing.T) {
	t.Parallel()

	router := testGateway(t, AuthConfig{}, relay.NewRegistry())

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d (admin routes should not be mounted)", rr.Code, http.StatusNotFound)
	}
}

func TestListTransfers(t *testing.T) {
	t.Parallel()

	reg := relay.NewRegistry()
	reg.Add(relay.Request{ID: "t1", Source: relay.Locator{Item: "golden-recs", Name: "side-a.flac"}, ChatID: 42, DeclaredSize: 100}, func() {})
	reg.Add(relay.Request{ID: "t2", Source: relay.Locator{Item: "golden-recs", Name: "side-b.flac"}, ChatID: 42}, func() {})
	reg.Complete("t2", relay.Success(64))
	router := testGateway(t, AuthConfig{BearerToken: "api-token"}, reg)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(http.MethodGet, "/api/transfers"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var snaps []relay.Snapshot
	if err := json.NewDecoder(rr.Body).Decode(&snaps); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("len = %d, want 2", len(snaps))
	}
	byID := map[string]relay.Snapshot{}
	for _, s := range snaps {
		byID[s.ID] = s
	}
	if byID["t1"].Status != relay.StatusQueued {
		t.Errorf("t1 status = %q, want %q", byID["t1"].Status, relay.StatusQueued)
	}
	if byID["t2"].Status != relay.StatusDone {
		t.Errorf("t2 status = %q, want %q", byID["t2"].Status, relay.StatusDone)
	}
	if byID["t2"].Progress.BytesTransferred != 64 {
		t.Errorf("t2 bytes = %d, want 64", byID["t2"].Progress.BytesTransferred)
	}
}

func TestGetTransfer(t *testing.T) {
	t.Parallel()

	reg := relay.NewRegistry()
	reg.Add(relay.Request{ID: "t1", Source: relay.Locator{Item: "golden-recs", Name: "side-a.flac"}, ChatID: 42}, func() {})
	router := testGateway(t, AuthConfig{BearerToken: "api-token"}, reg)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(http.MethodGet, "/api/transfers/t1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var snap relay.Snapshot
	if err := json.NewDecoder(rr.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Item != "golden-recs" || snap.Name != "side-a.flac" {
		t.Errorf("snapshot = %+v, want item/name populated", snap)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(http.MethodGet, "/api/transfers/nope"))
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing transfer status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestCancelTransfer(t *testing.T) {
	t.Parallel()

	cancelled := false
	reg := relay.NewRegistry()
	reg.Add(relay.Request{ID: "t1", Source: relay.Locator{Item: "i", Name: "f"}, ChatID: 1}, func() { cancelled = true })
	router := testGateway(t, AuthConfig{BearerToken: "api-token"}, reg)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(http.MethodDelete, "/api/transfers/t1"))

	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusAccepted)
	}
	if !cancelled {
		t.Error("cancel function was not invoked")
	}
}

func TestCancelTransfer_NotFound(t *testing.T) {
	t.Parallel()

	reg := relay.NewRegistry()
	reg.Add(relay.Request{ID: "done", Source: relay.Locator{Item: "i", Name: "f"}, ChatID: 1}, func() {})
	reg.Complete("done", relay.Success(10))
	router := testGateway(t, AuthConfig{BearerToken: "api-token"}, reg)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(http.MethodDelete, "/api/transfers/unknown"))
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want %d", rr.Code, http.StatusNotFound)
	}

	// Finished transfers cannot be cancelled.
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(http.MethodDelete, "/api/transfers/done"))
	if rr.Code != http.StatusNotFound {
		t.Errorf("finished transfer status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestTransfersWS_NoRegistry(t *testing.T) {
	t.Parallel()

	router := testGateway(t, AuthConfig{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/ws/transfers", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}
