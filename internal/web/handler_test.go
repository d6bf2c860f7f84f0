package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"docsign_web/internal/audit"
	"docsign_web/internal/auth"
	"docsign_web/internal/common"
	"docsign_web/internal/config"
	"docsign_web/internal/middleware"
	"docsign_web/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAuth struct {
	sessions map[string]*shared.Session
	signUp   auth.Result
	signIn   auth.Result
	lastCred auth.Credentials
	signOuts []string
}

func (f *fakeAuth) SignUp(ctx context.Context, creds auth.Credentials) auth.Result {
	f.lastCred = creds
	return f.signUp
}

func (f *fakeAuth) SignIn(ctx context.Context, creds auth.Credentials) auth.Result {
	f.lastCred = creds
	if f.signIn.Session != nil {
		f.sessions[f.signIn.Session.ID] = f.signIn.Session
	}
	return f.signIn
}

func (f *fakeAuth) SignOut(ctx context.Context, id string) error {
	f.signOuts = append(f.signOuts, id)
	delete(f.sessions, id)
	return nil
}

func (f *fakeAuth) CurrentSession(ctx context.Context, id string) (*shared.Session, error) {
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return nil, shared.ErrSessionNotFound
}

func (f *fakeAuth) GetUser(ctx context.Context, id string) (*shared.ProviderUser, error) {
	return nil, shared.ErrSessionNotFound
}

func (f *fakeAuth) ProviderName() string { return "fake" }

type fakeAudit struct{ events []audit.Event }

func (f *fakeAudit) Record(ctx context.Context, e audit.Event)              {}
func (f *fakeAudit) Recent(ctx context.Context, email string) []audit.Event { return f.events }
func (f *fakeAudit) Prune(ctx context.Context) (int64, error)               { return 0, nil }

const csrfToken = "csrf-test-token"

type testEnv struct {
	router *gin.Engine
	auth   *fakeAuth
	audit  *fakeAudit
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{SessionCookieName: "docsign_session", SessionTTL: time.Hour}
	fa := &fakeAuth{sessions: map[string]*shared.Session{}}
	fau := &fakeAudit{}
	h, err := NewHandler(fa, fau, cfg, zap.NewNop())
	require.NoError(t, err)
	r := gin.New()
	h.RegisterRoutes(r)
	return &testEnv{router: r, auth: fa, audit: fau}
}

func (e *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) post(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	form.Set(middleware.CSRFFormField, csrfToken)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: middleware.CSRFCookieName, Value: csrfToken})
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func sessionCookie(id string) *http.Cookie {
	return &http.Cookie{Name: "docsign_session", Value: id}
}

func TestHome_Anonymous(t *testing.T) {
	env := setup(t)
	w := env.get("/")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "DocSign - Test Auth")
	assert.Contains(t, body, `value="signup"`)
	assert.Contains(t, body, `value="signin"`)
	assert.Contains(t, body, "Signing up...")
	assert.NotNil(t, cookieNamed(w, middleware.CSRFCookieName))
}

func TestHome_Authenticated(t *testing.T) {
	env := setup(t)
	env.auth.sessions["s1"] = &shared.Session{ID: "s1", Email: "ada@example.com"}

	w := env.get("/", sessionCookie("s1"))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Welcome to DocSign!")
	assert.Contains(t, body, "Signed in as: <strong>ada@example.com</strong>")
	assert.Contains(t, body, "Sign Out")
	assert.NotContains(t, body, "DocSign - Test Auth</h1>")
}

func TestHome_SignUpShowsSuccess(t *testing.T) {
	env := setup(t)
	env.auth.signUp = auth.Result{Success: true, Message: common.MsgSignUpSuccess}

	w := env.post("/", url.Values{"action": {"signup"}, "email": {" ada@example.com "}, "password": {"hunter22"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<p class="message success">Success! Check your email for confirmation.</p>`)
	assert.Equal(t, " ada@example.com ", env.auth.lastCred.Email, "email reaches the provider untouched")
	assert.Equal(t, csrfToken, env.auth.lastCred.FormKey)
	assert.NotContains(t, w.Body.String(), "hunter22")
}

func TestHome_SignInErrorIsRed(t *testing.T) {
	env := setup(t)
	env.auth.signIn = auth.Result{
		Message: "Error: Invalid login credentials",
		Err:     &shared.ProviderError{Message: "Invalid login credentials"},
	}

	w := env.post("/", url.Values{"action": {"signin"}, "email": {"ada@example.com"}, "password": {"nope"}})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<p class="message error">Error: Invalid login credentials</p>`)
	assert.Contains(t, body, `value="ada@example.com"`)
	assert.NotContains(t, body, "nope")
}

func TestHome_SignInSuccessRedirectsHome(t *testing.T) {
	env := setup(t)
	sess := &shared.Session{ID: "s1", Email: "ada@example.com"}
	env.auth.signIn = auth.Result{Success: true, Message: common.MsgSignInSuccess, Session: sess}

	w := env.post("/", url.Values{"action": {"signin"}, "email": {"ada@example.com"}, "password": {"hunter22"}})

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	require.NotNil(t, cookieNamed(w, "docsign_session"))
	assert.Equal(t, "s1", cookieNamed(w, "docsign_session").Value)
	flash := cookieNamed(w, flashCookieName)
	require.NotNil(t, flash)

	w = env.get("/", sessionCookie("s1"), flash)
	assert.Contains(t, w.Body.String(), "Signed in successfully!")
	assert.Contains(t, w.Body.String(), "Welcome to DocSign!")
}

func TestHome_MissingCSRFIsRejected(t *testing.T) {
	env := setup(t)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("action=signin"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSignUpPage(t *testing.T) {
	env := setup(t)
	w := env.get("/signup")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `data-loading-label="Signing up..."`)

	env.auth.signUp = auth.Result{Message: "Error: User already registered", Err: &shared.ProviderError{Message: "User already registered"}}
	w = env.post("/signup", url.Values{"email": {"ada@example.com"}, "password": {"hunter22"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `<p class="message error">Error: User already registered</p>`)
}

func TestLogin_SuccessRedirectsToDashboard(t *testing.T) {
	env := setup(t)
	sess := &shared.Session{ID: "s1", Email: "ada@example.com"}
	env.auth.signIn = auth.Result{Success: true, Message: common.MsgSignInSuccess, Session: sess}

	w := env.get("/login")
	assert.Contains(t, w.Body.String(), `data-loading-label="Signing in..."`)

	w = env.post("/login", url.Values{"email": {"ada@example.com"}, "password": {"hunter22"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestDashboard(t *testing.T) {
	env := setup(t)
	w := env.get("/dashboard")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	env.auth.sessions["s1"] = &shared.Session{ID: "s1", Email: "ada@example.com"}
	env.audit.events = []audit.Event{{Email: "ada@example.com", Action: audit.ActionSignIn, Outcome: audit.OutcomeSuccess}}

	w = env.get("/dashboard", sessionCookie("s1"))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Hello, ada@example.com! You're now in your dashboard.")
	assert.Contains(t, body, "Your Documents")
	assert.Contains(t, body, "No documents yet. Document management coming soon!")
	assert.Contains(t, body, "Sign in (success)")
}

func TestSignOut(t *testing.T) {
	env := setup(t)
	env.auth.sessions["s1"] = &shared.Session{ID: "s1", Email: "ada@example.com"}

	w := env.post("/signout", nil, sessionCookie("s1"))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, []string{"s1"}, env.auth.signOuts)
	cleared := cookieNamed(w, "docsign_session")
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)

	w = env.get("/", sessionCookie("s1"))
	assert.Contains(t, w.Body.String(), "DocSign - Test Auth")
}
