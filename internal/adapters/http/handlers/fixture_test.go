package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-generator/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-generator/internal/adapters/session"
	"github.com/jsamuelsen/quote-generator/internal/app"
	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testPublicURL   = "https://quotes.example.com"
	testAccessToken = "platform-token"
	testEmail       = "ada@example.com"
)

var testCookies = middleware.Cookies{Name: "qg_session"}

// fixture serves the pages and the API over a real SessionManager. Only the
// platform is mocked.
type fixture struct {
	platform *mocks.MockPlatform
	store    *session.MemoryStore
	tokens   *session.TokenCodec
	manager  *app.SessionManager
	engine   *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		platform: mocks.NewMockPlatform(t),
		store:    session.NewMemoryStore(time.Hour),
		tokens:   session.NewTokenCodec("test-secret", time.Hour),
	}

	f.manager = app.NewSessionManager(app.SessionManagerConfig{
		Platform: f.platform,
		Store:    f.store,
		Model:    "test-model",
	})
	t.Cleanup(func() { _ = f.manager.Close(context.Background()) })

	tmpl, err := Templates(time.UTC)
	require.NoError(t, err)

	f.engine = gin.New()
	f.engine.SetHTMLTemplate(tmpl)
	f.engine.Use(middleware.Sessions(testCookies, f.tokens, f.manager))

	NewPageHandler(PageConfig{
		Sessions:  f.manager,
		Tokens:    f.tokens,
		Cookies:   testCookies,
		PublicURL: testPublicURL + "/",
	}).RegisterPageRoutes(f.engine)

	NewAPIHandler(f.manager, testPublicURL).RegisterAPIRoutes(f.engine.Group("/api/v1"))

	return f
}

// signIn stores a Ready session and returns its cookie.
func (f *fixture) signIn(t *testing.T, id string) *http.Cookie {
	t.Helper()

	require.NoError(t, f.store.Save(context.Background(), &domain.SessionRecord{
		ID:    id,
		Phase: domain.SessionReady,
		Credentials: &domain.Credentials{
			AccessToken: testAccessToken,
			User:        domain.User{ID: "user-1", Email: testEmail},
		},
		CreatedAt: time.Now(),
	}))

	return f.cookieFor(t, id)
}

func (f *fixture) cookieFor(t *testing.T, id string) *http.Cookie {
	t.Helper()

	token, _, err := f.tokens.Issue(id)
	require.NoError(t, err)

	return &http.Cookie{Name: testCookies.Name, Value: token}
}

// emptyHistory makes the first workspace load find nothing stored.
func (f *fixture) emptyHistory() {
	f.platform.EXPECT().Get(mock.Anything, testAccessToken, domain.HistoryKey).
		Return(nil, domain.NewNotFoundError("storage key", domain.HistoryKey)).Once()
}

// storedHistory makes the first workspace load find the given raw history.
func (f *fixture) storedHistory(raw string) {
	f.platform.EXPECT().Get(mock.Anything, testAccessToken, domain.HistoryKey).
		Return(json.RawMessage(raw), nil).Once()
}

// account answers the header lookups made by every snapshot.
func (f *fixture) account(credits int, plan string) {
	f.platform.EXPECT().Usage(mock.Anything, testAccessToken).
		Return(&domain.Usage{RemainingCredits: credits}, nil).Maybe()
	f.platform.EXPECT().Subscription(mock.Anything, testAccessToken).
		Return(&domain.Subscription{Status: "active", PlanName: plan}, nil).Maybe()
}

// acceptPushes lets the history mirror write back to storage.
func (f *fixture) acceptPushes() {
	f.platform.EXPECT().Set(mock.Anything, testAccessToken, domain.HistoryKey, mock.Anything).
		Return(nil).Maybe()
}

func (f *fixture) modelReturns(text, author string) {
	out := json.RawMessage(`{"text":"` + text + `","author":"` + author + `"}`)
	f.platform.EXPECT().Run(mock.Anything, testAccessToken, mock.Anything).
		Return([]json.RawMessage{out}, nil).Once()
}

func (f *fixture) do(method, target string, body io.Reader, cookie *http.Cookie, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	return w
}

func (f *fixture) get(target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	return f.do(http.MethodGet, target, nil, cookie, "")
}

func (f *fixture) sendJSON(method, target, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	return f.do(method, target, strings.NewReader(body), cookie, "application/json")
}

func (f *fixture) postForm(target, form string, cookie *http.Cookie) *httptest.ResponseRecorder {
	return f.do(http.MethodPost, target, strings.NewReader(form), cookie, "application/x-www-form-urlencoded")
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) app.View {
	t.Helper()

	var view app.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	return view
}

// sessionCookie returns the cookie set on w, if any.
func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookies.Name {
			return c
		}
	}

	return nil
}
