package deploy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testPayload(id string) *Payload {
	return &Payload{
		ID:     id,
		Player: "Nova",
		GameID: "clue-tracker",
		Config: map[string]any{"cluesToReveal": 2.0},
	}
}

func TestResolverCacheHit(t *testing.T) {
	store := newTestStore(t)
	if err := store.PutDeployment(testPayload("d1")); err != nil {
		t.Fatalf("cache write: %v", err)
	}

	r := &Resolver{Store: store}
	res := r.Resolve(context.Background(), Params{DeploymentID: "d1", Player: "Nova"})
	if res.Mode != ModeLive {
		t.Fatalf("expected live mode from cache, got %s (warning %q)", res.Mode, res.Warning)
	}
	if res.Payload == nil || res.Payload.ID != "d1" {
		t.Fatalf("expected cached payload d1, got %+v", res.Payload)
	}
}

func TestResolverLastDeploymentFallback(t *testing.T) {
	store := newTestStore(t)
	if err := store.PutDeployment(testPayload("d2")); err != nil {
		t.Fatalf("cache write: %v", err)
	}

	r := &Resolver{Store: store}
	res := r.Resolve(context.Background(), Params{Player: "Nova"})
	if res.Mode != ModeLive || res.Payload == nil || res.Payload.ID != "d2" {
		t.Fatalf("expected last-deployment fallback to d2, got %+v", res)
	}
}

func TestResolverRemoteFetchCaches(t *testing.T) {
	var requested string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		requested = req.URL.Path
		json.NewEncoder(w).Encode(testPayload("d3"))
	}))
	defer srv.Close()

	store := newTestStore(t)
	r := &Resolver{Store: store, Client: NewClient(srv.URL)}
	res := r.Resolve(context.Background(), Params{DeploymentID: "d3", Player: "Nova"})
	if res.Mode != ModeLive || res.Payload == nil {
		t.Fatalf("expected live resolution from remote, got %+v", res)
	}
	if requested != "/Nova/d3.json" {
		t.Errorf("expected request path /Nova/d3.json, got %q", requested)
	}

	cached, err := store.GetDeployment("d3")
	if err != nil || cached == nil {
		t.Fatalf("expected remote payload cached locally, got %v err %v", cached, err)
	}
	last, _ := store.LastDeploymentID()
	if last != "d3" {
		t.Errorf("expected last-deployment pointer moved to d3, got %q", last)
	}
}

func TestResolverMissingRemoteDegradesToPreview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("null"))
	}))
	defer srv.Close()

	r := &Resolver{Store: newTestStore(t), Client: NewClient(srv.URL)}
	res := r.Resolve(context.Background(), Params{DeploymentID: "ghost", Player: "Nova"})
	if res.Mode != ModePreview {
		t.Fatalf("expected preview mode for missing deployment, got %s", res.Mode)
	}
	if res.Warning == "" {
		t.Errorf("expected a warning for missing deployment")
	}
}

func TestResolverNetworkFailureDegradesToPreview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := &Resolver{Store: newTestStore(t), Client: NewClient(srv.URL)}
	res := r.Resolve(context.Background(), Params{DeploymentID: "d4", Player: "Nova"})
	if res.Mode != ModePreview || res.Warning == "" {
		t.Fatalf("expected warned preview on store failure, got %+v", res)
	}
}

func TestResolverNoInputsIsQuietPreview(t *testing.T) {
	r := &Resolver{}
	res := r.Resolve(context.Background(), Params{Player: "Nova"})
	if res.Mode != ModePreview || res.Warning != "" {
		t.Fatalf("expected quiet preview with no deployment requested, got %+v", res)
	}
}

func TestClientEscapesPathSegments(t *testing.T) {
	c := NewClient("https://store.example/api")
	got := c.documentURL("Doc Umber", "run/7")
	if !strings.HasPrefix(got, "https://store.example/api/") {
		t.Fatalf("unexpected base in %q", got)
	}
	if strings.Contains(got, " ") || strings.Contains(got, "run/7") {
		t.Errorf("expected escaped segments, got %q", got)
	}
	if !strings.HasSuffix(got, ".json") {
		t.Errorf("expected .json suffix, got %q", got)
	}
}

func TestClientNilForEmptyBase(t *testing.T) {
	if c := NewClient("  "); c != nil {
		t.Fatalf("expected nil client for empty base")
	}
}

func TestClientPatchStripsEmptyFields(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", req.Method)
		}
		json.NewDecoder(req.Body).Decode(&body)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.UpdateStatus(context.Background(), "Nova", "d1", StatusUpdate{
		Status:             StatusActive,
		StartedAt:          "2026-03-01T12:00:00Z",
		LastClientUpdateAt: "2026-03-01T12:00:00Z",
	})
	if err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	for _, key := range []string{"completedAt", "cancelledAt", "expiredAt", "outcome"} {
		if _, ok := body[key]; ok {
			t.Errorf("expected %s stripped from PATCH body, got %v", key, body[key])
		}
	}
	if body["status"] != StatusActive {
		t.Errorf("expected status in body, got %v", body["status"])
	}
}
