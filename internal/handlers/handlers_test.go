package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go-akashdhara/internal/catalog"
	"go-akashdhara/internal/clients"
	"go-akashdhara/internal/domain"
	"go-akashdhara/internal/services"
	"go-akashdhara/internal/session"

	"github.com/gin-gonic/gin"
)

var testNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

type stubImages struct {
	calls atomic.Int32
	err   error
}

func (s *stubImages) FetchAPOD(_ context.Context, date string) (*domain.DailyImage, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.DailyImage{Date: date, Title: "Image " + date, URL: "https://x/a.jpg", Explanation: "x", MediaType: "image"}, nil
}

func (s *stubImages) FetchAPODRange(_ context.Context, start, end string) ([]domain.DailyImage, error) {
	s.calls.Add(1)
	return []domain.DailyImage{{Date: start}, {Date: end}}, nil
}

type stubLaunches struct{}

func (stubLaunches) FetchLaunchesForDate(_ context.Context, date string) ([]domain.LaunchRecord, error) {
	return []domain.LaunchRecord{{ID: "l-" + date, Name: "Falcon 9"}}, nil
}

type envelope struct {
	Ok    bool             `json:"ok"`
	Data  json.RawMessage  `json:"data"`
	Error *domain.ApiError `json:"error"`
}

func newTestRouter(t *testing.T, images *stubImages) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	kb := catalog.MustLoad()
	policy := services.DefaultRetryPolicy()
	policy.Sleep = func(context.Context, time.Duration) error { return nil }
	space := services.NewSpaceService(images, stubLaunches{}, kb,
		services.WithClock(func() time.Time { return testNow }),
		services.WithRetryPolicy(policy))

	chatClient := clients.NewOpenAIClient(clients.NewHTTPClient(time.Second), "http://127.0.0.1:1", "", clients.ChatOptions{})
	chat := services.NewChatService(chatClient)
	store := session.NewStore(context.Background(), space, time.Hour, session.WithGreeting(services.Greeting))

	h := NewHandler(space, chat, kb, store, time.UTC)
	h.now = func() time.Time { return testNow }

	r := gin.New()
	SetupRoutes(r, h)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if path != "/health" {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s: %v (%s)", method, path, err, w.Body.String())
		}
	}
	return w, env
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, &stubImages{})
	w, _ := do(t, r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestGetApod(t *testing.T) {
	images := &stubImages{}
	r := newTestRouter(t, images)

	w, env := do(t, r, http.MethodGet, "/apod?date=2021-02-18", nil)
	if w.Code != http.StatusOK || !env.Ok {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
	var img domain.DailyImage
	if err := json.Unmarshal(env.Data, &img); err != nil || img.Date != "2021-02-18" {
		t.Fatalf("unexpected image %s", env.Data)
	}

	w, env = do(t, r, http.MethodGet, "/apod", nil)
	if err := json.Unmarshal(env.Data, &img); err != nil || img.Date != "2024-03-10" {
		t.Fatalf("expected today's image, got %s", w.Body.String())
	}
}

func TestGetApodRejectsBadDates(t *testing.T) {
	images := &stubImages{}
	r := newTestRouter(t, images)

	for _, path := range []string{"/apod?date=1990-01-01", "/apod?date=2030-01-01", "/apod?date=18-02-2021"} {
		w, env := do(t, r, http.MethodGet, path, nil)
		if w.Code != http.StatusBadRequest || env.Ok || env.Error.Code != "VALIDATION_ERROR" || env.Error.Action != domain.ActionToday {
			t.Fatalf("%s: unexpected response %d %s", path, w.Code, w.Body.String())
		}
	}
	if images.calls.Load() != 0 {
		t.Fatalf("expected no upstream calls, got %d", images.calls.Load())
	}
}

func TestGetApodUpstreamFailure(t *testing.T) {
	images := &stubImages{err: &domain.NetworkError{Service: "NASA API", Err: errors.New("down")}}
	r := newTestRouter(t, images)

	w, env := do(t, r, http.MethodGet, "/apod?date=2024-03-01", nil)
	if w.Code != http.StatusOK || env.Ok || env.Error.Code != "NETWORK_ERROR" || !env.Error.Retryable || env.Error.Action != domain.ActionRetry {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
	if images.calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", images.calls.Load())
	}
}

func TestGetApodRange(t *testing.T) {
	r := newTestRouter(t, &stubImages{})

	w, env := do(t, r, http.MethodGet, "/apod/range?start=2024-03-01&end=2024-03-02", nil)
	if w.Code != http.StatusOK || !env.Ok {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
	w, _ = do(t, r, http.MethodGet, "/apod/range?start=2024-03-01", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without end, got %d", w.Code)
	}
}

func TestGetTimelineAcceptsAnyDate(t *testing.T) {
	r := newTestRouter(t, &stubImages{})

	w, env := do(t, r, http.MethodGet, "/timeline?date=1969-07-20", nil)
	if w.Code != http.StatusOK || !env.Ok {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
	var tl domain.Timeline
	if err := json.Unmarshal(env.Data, &tl); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tl.Date != "1969-07-20" || len(tl.Launches) != 1 || tl.Events[0].Title != "Apollo 11 Moon Landing" {
		t.Fatalf("unexpected timeline %+v", tl)
	}
}

func TestGetDay(t *testing.T) {
	r := newTestRouter(t, &stubImages{})

	_, env := do(t, r, http.MethodGet, "/day?date=1990-01-01", nil)
	var snap domain.DaySnapshot
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Image != nil || snap.ImageError == nil || snap.ImageError.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected image validation error, got %+v", snap)
	}
	if snap.Timeline == nil || len(snap.Timeline.Events) == 0 {
		t.Fatalf("expected timeline despite image error, got %+v", snap.Timeline)
	}
}

func TestGetEvents(t *testing.T) {
	r := newTestRouter(t, &stubImages{})

	_, env := do(t, r, http.MethodGet, "/events/02-29", nil)
	if !env.Ok {
		t.Fatalf("expected leap day to be accepted: %+v", env.Error)
	}
	w, _ := do(t, r, http.MethodGet, "/events/13-01", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestListMissions(t *testing.T) {
	r := newTestRouter(t, &stubImages{})

	_, env := do(t, r, http.MethodGet, "/missions?country=India&sort=date&order=asc", nil)
	var out struct {
		Missions []domain.Mission `json:"missions"`
		Stats    struct {
			Total     int `json:"total"`
			Countries int `json:"countries"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Missions) != 3 || out.Missions[0].ID != "chandrayaan-1" || out.Stats.Total != 3 || out.Stats.Countries != 1 {
		t.Fatalf("unexpected listing %+v", out)
	}

	for _, path := range []string{"/missions?sort=cost", "/missions?status=Exploded", "/missions?start=2020&end=2010", "/missions?start=abc"} {
		w, env := do(t, r, http.MethodGet, path, nil)
		if w.Code != http.StatusBadRequest || env.Ok {
			t.Fatalf("%s: expected 400, got %d %s", path, w.Code, w.Body.String())
		}
	}
}

func TestMissionLookupAndCompare(t *testing.T) {
	r := newTestRouter(t, &stubImages{})

	w, _ := do(t, r, http.MethodGet, "/missions/facets", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("facets: %d", w.Code)
	}
	w, _ = do(t, r, http.MethodGet, "/missions/apollo-11", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("mission: %d", w.Code)
	}
	w, _ = do(t, r, http.MethodGet, "/missions/unknown", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w, env := do(t, r, http.MethodPost, "/missions/compare", gin.H{"ids": []string{"apollo-11", "chandrayaan-3"}})
	if w.Code != http.StatusOK || !env.Ok {
		t.Fatalf("compare: %d %s", w.Code, w.Body.String())
	}
	w, _ = do(t, r, http.MethodPost, "/missions/compare", gin.H{"ids": []string{"apollo-11"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for single mission, got %d", w.Code)
	}
}

func TestSessionFlow(t *testing.T) {
	r := newTestRouter(t, &stubImages{})

	w, env := do(t, r, http.MethodPost, "/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var snap session.Snapshot
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.View.Date != "2024-03-10" || snap.View.Generation != 1 {
		t.Fatalf("unexpected initial view %+v", snap.View)
	}
	base := "/sessions/" + snap.ID

	w, env = do(t, r, http.MethodPost, base+"/date", gin.H{"date": "2021-02-18"})
	if w.Code != http.StatusAccepted {
		t.Fatalf("select: %d %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(env.Data, &snap); err != nil || snap.View.Generation != 2 || snap.View.Date != "2021-02-18" {
		t.Fatalf("unexpected view after select %+v", snap.View)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		_, env = do(t, r, http.MethodGet, base, nil)
		if err := json.Unmarshal(env.Data, &snap); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if snap.View.Image.Status != session.StatusPending && snap.View.Timeline.Status != session.StatusPending {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("fetches never completed: %+v", snap.View)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if snap.View.Image.Status != session.StatusReady || snap.View.Image.Data.Date != "2021-02-18" {
		t.Fatalf("unexpected image result %+v", snap.View.Image)
	}

	for _, id := range []string{"apollo-11", "voyager-1"} {
		w, _ = do(t, r, http.MethodPost, base+"/selection/"+id, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("toggle %s: %d", id, w.Code)
		}
	}
	w, _ = do(t, r, http.MethodPost, base+"/selection/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown mission, got %d", w.Code)
	}
	w, env = do(t, r, http.MethodGet, base+"/compare", nil)
	if w.Code != http.StatusOK || !env.Ok {
		t.Fatalf("compare: %d %s", w.Code, w.Body.String())
	}

	w, _ = do(t, r, http.MethodDelete, base+"/selection", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("clear selection: %d", w.Code)
	}
	w, _ = do(t, r, http.MethodGet, base+"/compare", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 comparing an empty selection, got %d", w.Code)
	}

	w, env = do(t, r, http.MethodPost, base+"/chat", gin.H{"content": "Hi"})
	var reply domain.ChatMessage
	if err := json.Unmarshal(env.Data, &reply); err != nil || reply.Content != clients.NoCredentialReply {
		t.Fatalf("unexpected reply %d %s", w.Code, w.Body.String())
	}
	_, env = do(t, r, http.MethodGet, base+"/chat", nil)
	var log struct {
		Messages []domain.ChatMessage `json:"messages"`
	}
	if err := json.Unmarshal(env.Data, &log); err != nil || len(log.Messages) != 3 || log.Messages[0].Content != services.Greeting {
		t.Fatalf("unexpected conversation %s", env.Data)
	}

	w, _ = do(t, r, http.MethodGet, "/sessions/does-not-exist", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
