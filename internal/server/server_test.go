package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/importJL/GlyphWrAIte/internal/catalog"
	"github.com/importJL/GlyphWrAIte/internal/credential"
	"github.com/importJL/GlyphWrAIte/internal/gateway"
	"github.com/importJL/GlyphWrAIte/internal/llm"
	"github.com/importJL/GlyphWrAIte/internal/session"
	"github.com/importJL/GlyphWrAIte/internal/settings"
	"github.com/importJL/GlyphWrAIte/internal/store"
)

func TestServer(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

type ServerTestSuite struct {
	suite.Suite
	store   *store.Store
	mock    *llm.MockProvider
	models  *httptest.Server
	catalog *catalog.Catalog
	handler http.Handler
	now     time.Time
	testSeq int
}

func (s *ServerTestSuite) SetupTest() {
	s.T().Setenv(credential.EnvVar, "")
	s.testSeq++

	st, err := store.Open(fmt.Sprintf("file:server_%s_%d?mode=memory&cache=shared",
		strings.NewReplacer("/", "_").Replace(s.T().Name()), s.testSeq))
	s.Require().NoError(err)
	s.store = st

	s.models = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-or-good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[
			{"id":"qwen/qwen2.5-vl-32b-instruct:free","name":"Qwen VL","pricing":{"prompt":"0","completion":"0"}},
			{"id":"openai/gpt-4o","name":"GPT-4o","pricing":{"prompt":"0.000005","completion":"0.000015"}},
			{"id":"meta-llama/llama-3-8b","name":"Llama 3","pricing":{"prompt":"0.0000001","completion":"0.0000001"}}
		]}`)
	}))

	s.mock = llm.NewMockProvider()
	gw := gateway.New(llm.DefaultConfig(), nil, gateway.WithProviderFactory(
		func(context.Context, llm.Config, store.EventRepo) (llm.Provider, error) { return s.mock, nil },
	))
	creds := credential.NewStore(st.KVRepo())
	sessions := st.SessionRepo()
	s.catalog = catalog.New(catalog.WithBaseURL(s.models.URL))
	s.now = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	srv, err := New(Deps{
		Sessions:    sessions,
		Settings:    settings.NewService(st.KVRepo(), settings.DefaultAI()),
		Credentials: creds,
		Catalog:     s.catalog,
		Providers:   gw,
		Practice: session.NewRegistry(func(user string) *session.Orchestrator {
			return session.New(user, gw, creds, sessions, session.WithClock(func() time.Time { return s.now }))
		}),
		Location: time.UTC,
		Now:      func() time.Time { return s.now },
	}, Options{})
	s.Require().NoError(err)
	s.handler = srv.Handler()
}

func (s *ServerTestSuite) TearDownTest() {
	s.models.Close()
	s.store.Close()
}

func (s *ServerTestSuite) do(method, path, user string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(UserHeader, user)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) decode(rec *httptest.ResponseRecorder, into any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), into), rec.Body.String())
}

func dataURL(b []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(b)
}

func (s *ServerTestSuite) TestHealthAndMetrics() {
	s.Equal(http.StatusOK, s.do("GET", "/healthz", "", nil).Code)

	rec := s.do("GET", "/metrics", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "glyphwrite_http_requests_total")
}

func (s *ServerTestSuite) TestCharacters() {
	var langs struct{ Languages []string }
	s.decode(s.do("GET", "/api/characters", "", nil), &langs)
	s.Contains(langs.Languages, "english")
	s.Contains(langs.Languages, "korean")

	s.Equal(http.StatusOK, s.do("GET", "/api/characters/english", "", nil).Code)
	s.Equal(http.StatusNotFound, s.do("GET", "/api/characters/klingon", "", nil).Code)
	s.Equal(http.StatusBadRequest, s.do("GET", "/api/characters/english?difficulty=expert", "", nil).Code)
	s.Equal(http.StatusNotFound, s.do("GET", "/api/characters/english?category=nope", "", nil).Code)

	var common struct {
		Characters []struct{ Character string }
	}
	s.decode(s.do("GET", "/api/characters/english?category=common-words", "", nil), &common)
	s.Require().Len(common.Characters, 2)
	s.Equal("Hello", common.Characters[0].Character)

	var found struct {
		Characters []struct{ Character string }
	}
	s.decode(s.do("GET", "/api/characters/english/search?q=hello", "", nil), &found)
	var names []string
	for _, ch := range found.Characters {
		names = append(names, ch.Character)
	}
	s.Contains(names, "Hello")

	rec := s.do("GET", "/api/characters/chinese/"+"你", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"definition"`)

	s.Equal(http.StatusNotFound, s.do("GET", "/api/characters/english/Q", "", nil).Code)
}

func (s *ServerTestSuite) TestModels_FallbackWithoutCredential() {
	var resp struct {
		Models map[string][]catalog.ModelDescriptor
		Live   bool
	}
	s.decode(s.do("GET", "/api/models?capability=vision", "", nil), &resp)
	s.False(resp.Live)
	s.LessOrEqual(len(resp.Models["vision"]), len(catalog.VisionAllowList))

	s.Equal(http.StatusBadRequest, s.do("GET", "/api/models?capability=smell", "", nil).Code)

	rec := s.do("POST", "/api/models/refresh", "", nil)
	s.Equal(http.StatusPreconditionFailed, rec.Code)
	s.Contains(rec.Body.String(), "AuthError")
}

func (s *ServerTestSuite) TestCredentialLifecycle() {
	rec := s.do("PUT", "/api/credential", "", map[string]string{"apiKey": "  "})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do("PUT", "/api/credential", "", map[string]string{"apiKey": "sk-or-good"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.NotContains(rec.Body.String(), "sk-or-good")
	s.False(s.catalog.FetchedAt().IsZero())

	var models struct {
		Models map[string][]catalog.ModelDescriptor
		Live   bool
	}
	s.decode(s.do("GET", "/api/models", "", nil), &models)
	s.True(models.Live)
	s.Len(models.Models["vision"], 1)
	s.Equal("meta-llama/llama-3-8b", models.Models["text"][0].ID)

	s.Equal(http.StatusOK, s.do("DELETE", "/api/credential", "", nil).Code)
	s.True(s.catalog.FetchedAt().IsZero())

	var status credential.Status
	s.decode(s.do("GET", "/api/credential", "", nil), &status)
	s.False(status.HasKey)
}

func (s *ServerTestSuite) TestPracticeFlow_NoCredential() {
	var sel struct {
		Target session.Target
		Tips   []string
	}
	rec := s.do("POST", "/api/practice/select", "alice", map[string]string{"language": "english", "character": "A"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.decode(rec, &sel)
	s.Equal("A", sel.Target.Character)
	s.Len(sel.Tips, 4)

	s.Equal(http.StatusOK, s.do("POST", "/api/practice/begin", "alice", nil).Code)
	rec = s.do("POST", "/api/practice/capture", "alice", map[string]string{"image": dataURL([]byte("fake png"))})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var state session.State
	s.decode(s.do("GET", "/api/practice/state", "alice", nil), &state)
	s.Equal(session.PhaseDrawing, state.Phase)
	s.True(state.HasCapture)

	var out session.Outcome
	rec = s.do("POST", "/api/practice/submit", "alice", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.decode(rec, &out)
	s.Equal(store.ScoreSourceFallback, out.Record.ScoreSource)
	s.GreaterOrEqual(out.Record.Score, session.DefaultMinScore)
	s.LessOrEqual(out.Record.Score, session.DefaultMaxScore)
	s.Zero(s.mock.CallCount())

	var list struct{ Sessions []store.SessionRecord }
	s.decode(s.do("GET", "/api/sessions", "alice", nil), &list)
	s.Len(list.Sessions, 1)

	var analytics struct {
		Summary    struct{ TotalSessions int }
		ByLanguage []struct {
			Language string
			Percent  int
		}
		ByDayOfWeek []struct{ Sessions int }
	}
	s.decode(s.do("GET", "/api/analytics", "alice", nil), &analytics)
	s.Equal(1, analytics.Summary.TotalSessions)
	s.Require().Len(analytics.ByLanguage, 1)
	s.Equal(100, analytics.ByLanguage[0].Percent)
	s.Len(analytics.ByDayOfWeek, 7)
	s.Equal(1, analytics.ByDayOfWeek[time.Monday].Sessions)

	var prefs struct{ Preferences settings.Preferences }
	s.decode(s.do("GET", "/api/settings", "alice", nil), &prefs)
	s.Equal("english", prefs.Preferences.Language)
}

func (s *ServerTestSuite) TestPracticeFlow_VisionWithCredential() {
	s.Require().Equal(http.StatusOK, s.do("PUT", "/api/credential", "", map[string]string{"apiKey": "sk-or-good"}).Code)
	s.Require().Equal(http.StatusOK, s.do("PATCH", "/api/settings", "bob", map[string]any{"videoAssisted": true}).Code)

	s.mock.AddText("Keep your strokes even.")
	s.mock.AddText(`{"model_guess":"B","score":88,"grade":"B","feedback":"Steady lines.","suggestions":["Close the loops"]}`)

	var sel struct{ Tips []string }
	s.decode(s.do("POST", "/api/practice/select", "bob", map[string]string{"language": "english", "character": "B"}), &sel)
	s.Equal([]string{"Keep your strokes even."}, sel.Tips)

	s.do("POST", "/api/practice/begin", "bob", nil)
	s.do("POST", "/api/practice/capture", "bob", map[string]string{"mimeType": "image/png", "data": base64.StdEncoding.EncodeToString([]byte("png"))})

	var out session.Outcome
	rec := s.do("POST", "/api/practice/submit", "bob", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.decode(rec, &out)
	s.Equal(88, out.Record.Score)
	s.Equal(store.ScoreSourceVision, out.Record.ScoreSource)
	s.Equal("AI Analysis: Steady lines.", out.Narrative[0])
	s.Contains(out.Narrative, "Suggestion: Close the loops")

	last, ok := s.mock.LastCall()
	s.Require().True(ok)
	s.Require().Len(last.Messages, 1)
	s.Require().Len(last.Messages[0].Images, 1)
	s.Equal("image/png", last.Messages[0].Images[0].MIMEType)
	s.Equal(settings.DefaultAI().VisionModel, last.Model)
}

func (s *ServerTestSuite) TestPracticeErrors() {
	rec := s.do("POST", "/api/practice/begin", "carol", nil)
	s.Equal(http.StatusBadRequest, rec.Code, "no character selected")

	s.do("POST", "/api/practice/select", "carol", map[string]string{"language": "english", "character": "A"})
	s.Equal(http.StatusConflict, s.do("POST", "/api/practice/submit", "carol", nil).Code)

	s.do("POST", "/api/practice/begin", "carol", nil)
	s.Equal(http.StatusBadRequest, s.do("POST", "/api/practice/capture", "carol", map[string]string{"image": "not a data url"}).Code)
	s.Equal(http.StatusBadRequest, s.do("POST", "/api/practice/capture", "carol", map[string]string{"image": "data:text/plain;base64,aGk="}).Code)
	s.Equal(http.StatusBadRequest, s.do("POST", "/api/practice/select", "carol", map[string]string{"language": "english", "level": "expert"}).Code)

	s.Equal(http.StatusPreconditionFailed, s.do("POST", "/api/practice/submit", "", nil).Code)
	s.Equal(http.StatusBadRequest, s.do("POST", "/api/practice/ask", "carol", map[string]string{"question": " "}).Code)

	s.do("POST", "/api/practice/clear", "carol", nil)
	s.Equal(http.StatusConflict, s.do("POST", "/api/practice/submit", "carol", nil).Code)
	var list struct{ Sessions []store.SessionRecord }
	s.decode(s.do("GET", "/api/sessions", "carol", nil), &list)
	s.Empty(list.Sessions)
}

func (s *ServerTestSuite) TestAskWithoutCredential() {
	s.do("POST", "/api/practice/select", "", map[string]string{"language": "japanese", "character": "あ"})

	var resp struct{ Entries []string }
	rec := s.do("POST", "/api/practice/ask", "", map[string]string{"question": "How many strokes?"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.decode(rec, &resp)
	s.Require().Len(resp.Entries, 2)
	s.Equal("Q: How many strokes?", resp.Entries[0])
	s.True(strings.HasPrefix(resp.Entries[1], "A: "))

	var narrative struct{ Narrative []string }
	s.decode(s.do("GET", "/api/practice/narrative", "", nil), &narrative)
	s.Equal(resp.Entries, narrative.Narrative[len(narrative.Narrative)-2:])
}

func (s *ServerTestSuite) TestSettings() {
	s.Equal(http.StatusPreconditionFailed, s.do("GET", "/api/settings", "", nil).Code)

	var got struct{ AI settings.AI }
	rec := s.do("PATCH", "/api/settings", "dave", map[string]any{"persona": "strict", "feedbackDelay": 0})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.decode(rec, &got)
	s.Equal(gateway.PersonaStrict, got.AI.Persona)
	s.Zero(got.AI.FeedbackDelayMs)

	s.Equal(http.StatusBadRequest, s.do("PATCH", "/api/settings", "dave", map[string]any{"persona": "sarcastic"}).Code)
	s.Equal(http.StatusBadRequest, s.do("PATCH", "/api/settings", "dave", map[string]any{"visionModel": "openai/gpt-4o"}).Code)

	s.decode(s.do("DELETE", "/api/settings", "dave", nil), &got)
	s.Equal(settings.DefaultAI(), got.AI)
}

func (s *ServerTestSuite) TestReportAndAccountClearing() {
	s.do("POST", "/api/practice/select", "erin", map[string]string{"language": "korean", "character": "안"})
	s.do("POST", "/api/practice/begin", "erin", nil)
	s.Require().Equal(http.StatusOK, s.do("POST", "/api/practice/submit", "erin", nil).Code)

	rec := s.do("GET", "/api/report", "erin", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get("Content-Disposition"), "erin-learning-report-2026-03-02.json")
	s.Contains(rec.Body.String(), `"languageData"`)

	rec = s.do("GET", "/api/report?format=share", "erin", nil)
	s.Contains(rec.Body.String(), "📚 1 practice sessions")

	var cleared struct{ Removed int64 }
	s.decode(s.do("DELETE", "/api/account/data", "erin", nil), &cleared)
	s.Equal(int64(1), cleared.Removed)

	var list struct{ Sessions []store.SessionRecord }
	s.decode(s.do("GET", "/api/sessions", "erin", nil), &list)
	s.Empty(list.Sessions)

	var state session.State
	s.decode(s.do("GET", "/api/practice/state", "erin", nil), &state)
	s.Nil(state.Target)
}

func TestNew_MissingDeps(t *testing.T) {
	if _, err := New(Deps{}, Options{}); err == nil {
		t.Fatal("expected error for missing dependencies")
	}
}

func TestAllowOrigin(t *testing.T) {
	allow := allowOrigin([]string{"https://glyph.example"})
	tests := []struct {
		origin string
		want   bool
	}{
		{"http://localhost:5173", true},
		{"http://127.0.0.1:3000", true},
		{"https://glyph.example", true},
		{"https://evil.example", false},
	}
	for _, tt := range tests {
		if got := allow(tt.origin); got != tt.want {
			t.Errorf("allowOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestCaptureRequestDecode(t *testing.T) {
	img, err := captureRequest{Image: dataURL([]byte{1, 2, 3})}.decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.MIMEType != "image/png" || len(img.Data) != 3 {
		t.Errorf("decoded = %+v", img)
	}

	if _, err := (captureRequest{}).decode(); err == nil {
		t.Error("empty capture should fail")
	}
	if _, err := (captureRequest{MIMEType: "image/png", Data: "%%%"}).decode(); err == nil {
		t.Error("bad base64 should fail")
	}
}

func (s *ServerTestSuite) TestRefresher_CredentialRemovedElsewhere() {
	creds := credential.NewStore(s.store.KVRepo())
	ctx := context.Background()
	r := newRefresher(s.catalog, creds, zap.NewNop())

	r.refresh(ctx)
	s.True(s.catalog.FetchedAt().IsZero(), "no credential, nothing fetched")

	s.Require().NoError(creds.Set(ctx, "sk-or-good"))
	r.refresh(ctx)
	s.False(s.catalog.FetchedAt().IsZero())

	// Another process sharing the database clears the key.
	s.Require().NoError(credential.NewStore(s.store.KVRepo()).Clear(ctx))
	r.refresh(ctx)
	s.True(s.catalog.FetchedAt().IsZero())
	s.Equal(catalog.Fallback(catalog.Text), s.catalog.List(catalog.Text))
}
