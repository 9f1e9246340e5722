package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mirasdk "github.com/cyberFlowTech/mira-sdk-go"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	s, err := New(opts)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(s.Router())
	t.Cleanup(func() {
		ts.Close()
		s.Close(context.Background())
	})
	return ts
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp.StatusCode
}

func createSession(t *testing.T, base string) string {
	t.Helper()
	var created createSessionResponse
	if code := doJSON(t, http.MethodPost, base+"/sessions", nil, &created); code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	if created.ID == "" {
		t.Fatal("expected generated session id")
	}
	return created.ID
}

// ═══════════════════════════════════════════════
// Session flow
// ═══════════════════════════════════════════════

func TestServer_AnalyzeAndPoll(t *testing.T) {
	ts := newTestServer(t, Options{})
	id := createSession(t, ts.URL)

	var analysis mirasdk.Analysis
	code := doJSON(t, http.MethodPost, ts.URL+"/sessions/"+id+"/analyze",
		textRequest{Text: "aku lagi stress banget dan sedih"}, &analysis)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if analysis.Mood != mirasdk.MoodReflective {
		t.Fatalf("expected reflective, got %s", analysis.Mood)
	}
	if analysis.Expression.Primary != mirasdk.ExpressionSad {
		t.Fatalf("expected sad, got %s", analysis.Expression.Primary)
	}

	var expr expressionResponse
	doJSON(t, http.MethodGet, ts.URL+"/sessions/"+id+"/expression", nil, &expr)
	if expr.Blend.Primary != mirasdk.ExpressionSad || expr.Mood != mirasdk.MoodReflective {
		t.Fatalf("poll should return cached blend, got %+v", expr)
	}

	var trend trendResponse
	doJSON(t, http.MethodGet, ts.URL+"/sessions/"+id+"/trend", nil, &trend)
	if !trend.InsufficientData || trend.Trendline != nil {
		t.Fatalf("expected insufficient data after one utterance, got %+v", trend)
	}
}

func TestServer_Prompt(t *testing.T) {
	ts := newTestServer(t, Options{})
	id := createSession(t, ts.URL)

	resp, err := http.Get(ts.URL + "/sessions/" + id + "/prompt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), "Mood: chill") {
		t.Fatalf("expected chill mood section, got %q", buf.String())
	}
}

func TestServer_UnknownSession(t *testing.T) {
	ts := newTestServer(t, Options{})
	code := doJSON(t, http.MethodPost, ts.URL+"/sessions/nope/analyze", textRequest{Text: "halo"}, nil)
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestServer_EmptyText(t *testing.T) {
	ts := newTestServer(t, Options{})
	id := createSession(t, ts.URL)
	var e errorResponse
	code := doJSON(t, http.MethodPost, ts.URL+"/sessions/"+id+"/analyze", textRequest{Text: "  "}, &e)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if e.Error != mirasdk.ErrEmptyInput.Error() {
		t.Fatalf("unexpected error: %q", e.Error)
	}
}

func TestServer_DuplicateAndClose(t *testing.T) {
	persister := mirasdk.NewProfilePersister(mirasdk.NewInMemoryKVStore())
	defer persister.Close()
	ts := newTestServer(t, Options{Persister: persister})

	if code := doJSON(t, http.MethodPost, ts.URL+"/sessions", createSessionRequest{ID: "u1"}, nil); code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	if code := doJSON(t, http.MethodPost, ts.URL+"/sessions", createSessionRequest{ID: "u1"}, nil); code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", code)
	}
	doJSON(t, http.MethodPost, ts.URL+"/sessions/u1/analyze", textRequest{Text: "wkwk lucu banget main game yuk"}, nil)

	if code := doJSON(t, http.MethodDelete, ts.URL+"/sessions/u1", nil, nil); code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", code)
	}

	var created createSessionResponse
	doJSON(t, http.MethodPost, ts.URL+"/sessions", createSessionRequest{ID: "u1"}, &created)
	if !created.Restored {
		t.Fatal("expected profile restored after close")
	}
}

func TestServer_RespondOffline(t *testing.T) {
	chat := mirasdk.ChatBackendFunc(func(context.Context, []mirasdk.ChatMessage) (string, error) {
		return "", errors.New("upstream down")
	})
	ts := newTestServer(t, Options{Chat: chat})
	id := createSession(t, ts.URL)

	var reply mirasdk.Reply
	doJSON(t, http.MethodPost, ts.URL+"/sessions/"+id+"/respond", textRequest{Text: "halo"}, &reply)
	if !reply.Offline || reply.Text != mirasdk.DefaultOfflineResponse {
		t.Fatalf("expected offline response, got %+v", reply)
	}
}

// ═══════════════════════════════════════════════
// Sessionless endpoints
// ═══════════════════════════════════════════════

func TestServer_Humanize(t *testing.T) {
	ts := newTestServer(t, Options{})
	var out textResponse
	doJSON(t, http.MethodPost, ts.URL+"/humanize", textRequest{Text: "Saya memahami perasaanmu. Silakan cerita."}, &out)
	if out.Text != "Aku ngerti perasaanmu. Coba cerita." {
		t.Fatalf("unexpected humanized text: %q", out.Text)
	}
}

func TestServer_HealthAndOffline(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out textResponse
	doJSON(t, http.MethodGet, ts.URL+"/offline", nil, &out)
	if out.Text != mirasdk.DefaultOfflineResponse {
		t.Fatalf("expected default offline text with nil rand, got %q", out.Text)
	}
}
