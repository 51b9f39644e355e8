package echoweb

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/eduspace/web/core/permission"
	"github.com/eduspace/web/core/profile"
	"github.com/eduspace/web/core/session"
	"github.com/eduspace/web/core/subject"
	"github.com/eduspace/web/services/lmsapi"
)

func Test_redirectRules(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAPI{})

	tests := []struct {
		name       string
		path       string
		credential string
		wantCode   int
		wantTarget string
	}{
		{name: "root redirects to dashboard", path: "/", wantCode: http.StatusFound, wantTarget: "/dashboard"},
		{name: "authenticated root redirects to dashboard", path: "/", credential: "tok", wantCode: http.StatusFound, wantTarget: "/dashboard"},
		{name: "unauthenticated dashboard goes to login", path: "/dashboard", wantCode: http.StatusFound, wantTarget: "/login"},
		{name: "unauthenticated profile goes to login", path: "/profile", wantCode: http.StatusFound, wantTarget: "/login"},
		{name: "unauthenticated metrics goes to login", path: "/metrics", wantCode: http.StatusFound, wantTarget: "/login"},
		{name: "authenticated login goes to dashboard", path: "/login", credential: "tok", wantCode: http.StatusFound, wantTarget: "/dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := authGet(srv, tt.path, tt.credential)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantTarget, rec.Header().Get("Location"))
		})
	}
}

func Test_login_storesCredentialPerRemember(t *testing.T) {
	tests := []struct {
		name       string
		remember   bool
		wantCookie string
	}{
		{name: "remember goes to the durable cookie", remember: true, wantCookie: durableCookieName},
		{name: "no remember goes to the session cookie", remember: false, wantCookie: ephemeralCookieName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, &fakeAPI{loginToken: "tok-123"})

			form := url.Values{"email": {"awe@some.com"}, "password": {"secret"}}
			if tt.remember {
				form.Set("remember", "true")
			}
			rec := authPostForm(srv, "/login", "", form)

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

			var got *http.Cookie
			for _, c := range rec.Result().Cookies() {
				if c.Name == tt.wantCookie && c.Value == "tok-123" {
					got = c
				}
			}
			if assert.NotNil(t, got) {
				if tt.remember {
					assert.Greater(t, got.MaxAge, 0)
				} else {
					assert.Zero(t, got.MaxAge)
				}
			}
		})
	}
}

func Test_login_shortPasswordNeverHitsTheNetwork(t *testing.T) {
	api := &fakeAPI{loginToken: "tok-123"}
	srv, _ := newTestServer(t, api)

	rec := authPostForm(srv, "/login", "", url.Values{
		"email":    {"awe@some.com"},
		"password": {"1234"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), session.MsgPasswordTooShort)
	assert.Zero(t, api.loginCalls)
}

func Test_login_failureShowsMessageAndKeepsEmail(t *testing.T) {
	api := &fakeAPI{loginErr: errors.New("401")}
	srv, _ := newTestServer(t, api)

	rec := authPostForm(srv, "/login", "", url.Values{
		"email":    {"awe@some.com"},
		"password": {"secret"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), session.MsgLoginFailed)
	assert.Contains(t, rec.Body.String(), "awe@some.com")
}

func Test_logout_clearsBothCookies(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAPI{})

	rec := authPostForm(srv, "/logout", "tok", nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	cleared := map[string]bool{}
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			cleared[c.Name] = true
		}
	}
	assert.True(t, cleared[durableCookieName])
	assert.True(t, cleared[ephemeralCookieName])
}

func Test_dashboard_rendersSubjectsAndGates(t *testing.T) {
	api := &fakeAPI{
		perms: permission.Set{
			permission.CapAddSubject: true,
			permission.CapCreateUser: true,
		},
		profile:  profile.Profile{FirstName: "Анна", LastName: "Каренина"},
		subjects: []subject.Subject{{ID: "s1", Name: "Алгебра", Description: "интро", TeacherName: "Анна Каренина"}},
	}
	srv, _ := newTestServer(t, api)

	rec := awaitBody(t, srv, "/dashboard", "tok", "Добавить предмет")
	body := rec.Body.String()
	assert.Contains(t, body, "Алгебра")
	assert.Contains(t, body, "Каренина Анна")       // header profile name
	assert.Contains(t, body, "Добавить пользователя") // gated nav entry
}

func Test_dashboard_hidesUngrantedAffordances(t *testing.T) {
	api := &fakeAPI{
		perms:    permission.Set{}, // everything false
		subjects: []subject.Subject{{ID: "s1", Name: "Алгебра"}},
	}
	srv, _ := newTestServer(t, api)

	rec := awaitBody(t, srv, "/dashboard", "tok", "Алгебра")
	body := rec.Body.String()
	assert.NotContains(t, body, "Добавить предмет")
	assert.NotContains(t, body, "Добавить пользователя")
}

func Test_dashboard_emptyState(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAPI{})
	awaitBody(t, srv, "/dashboard", "tok", "Предметов пока нет...")
}

func Test_createUser_emailTakenKeepsFormValues(t *testing.T) {
	api := &fakeAPI{
		perms:       permission.Set{permission.CapCreateUser: true},
		registerErr: errors.Wrap(&lmsapi.StatusError{Code: http.StatusBadRequest}, "POST /register"),
	}
	srv, _ := newTestServer(t, api)
	// the submit button only renders once the CreateUser capability landed
	awaitBody(t, srv, "/createUser", "tok", "Зарегистрировать")

	rec := authPostForm(srv, "/createUser", "tok", url.Values{
		"firstName":  {"Иван"},
		"lastName":   {"Петров"},
		"middleName": {"Сергеевич"},
		"email":      {"ivan@edu.space"},
		"role":       {"student"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, profile.MsgEmailTaken)
	assert.Contains(t, body, "ivan@edu.space")
	assert.Contains(t, body, "Иван")
}

func Test_createUser_missingMiddleNameRejectedUnlessWaived(t *testing.T) {
	api := &fakeAPI{perms: permission.Set{permission.CapCreateUser: true}}
	srv, _ := newTestServer(t, api)
	awaitBody(t, srv, "/createUser", "tok", "Зарегистрировать")

	form := url.Values{
		"firstName": {"Иван"},
		"lastName":  {"Петров"},
		"email":     {"ivan@edu.space"},
		"role":      {"student"},
	}
	rec := authPostForm(srv, "/createUser", "tok", form)
	assert.Contains(t, rec.Body.String(), profile.MsgMiddleNameRequired)
	assert.Empty(t, api.registered)

	form.Set("noMiddleName", "true")
	rec = authPostForm(srv, "/createUser", "tok", form)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	if assert.Len(t, api.registered, 1) {
		assert.Nil(t, api.registered[0].MiddleName)
	}
}

func Test_notFound_rendersNotFoundView(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAPI{})

	rec := authGet(srv, "/no/such/page", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Страница не найдена")
}

func Test_errorBoundary_reportsAndRendersFallback(t *testing.T) {
	srv, sink := newTestServer(t, &fakeAPI{})
	s := srv.(*server)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	ctx := s.app.NewContext(req, rec)
	ctx.Set(sessionContextKey, session.New())

	s.app.HTTPErrorHandler(errors.New("boom"), ctx)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), fallbackText)
	assert.Equal(t, 1, sink.count())
}
