package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"gitlab.com/judgerunner.net/internal/adapter/logging"
	"gitlab.com/judgerunner.net/internal/config"
	"gitlab.com/judgerunner.net/internal/domain"
	"gitlab.com/judgerunner.net/internal/static/errs"
)

type fakeLocalAuth struct {
	signupErr  error
	signupRole domain.Role
	loginErr   error
	loginRole  domain.Role
}

func (f *fakeLocalAuth) ProviderName() domain.Provider { return domain.ProviderLocal }

func (f *fakeLocalAuth) Login(ctx context.Context, users *domain.Users) (string, error) {
	f.loginRole = users.Role
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return "token-for-" + users.UserName, nil
}

func (f *fakeLocalAuth) Signup(ctx context.Context, userName, password string, role domain.Role) error {
	f.signupRole = role
	return f.signupErr
}

func newRouter(local *fakeLocalAuth, gg *config.GGAuthConfig) *mux.Router {
	r := mux.NewRouter()
	NewHandler(logging.NewNopLogger()).RegisterRoutes(r, &ServiceDependencies{
		LocalAuthService: local,
		GGAuthConfig:     gg,
	})
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
		wantRole   domain.Role
	}{
		{"user", "/signup", nil, http.StatusOK, domain.RoleUser},
		{"admin", "/signupadmin", nil, http.StatusOK, domain.RoleAdmin},
		{"exists", "/signup", errs.UserAlreadyExists, http.StatusBadRequest, domain.RoleUser},
		{"missing", "/signup", errs.MissingCredentials, http.StatusBadRequest, domain.RoleUser},
		{"store failure", "/signup", errs.FailedToCreateUser, http.StatusInternalServerError, domain.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := &fakeLocalAuth{signupErr: tt.err}
			rec := post(newRouter(local, &config.GGAuthConfig{}), tt.path, `{"username":"alice","password":"pw"}`)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if local.signupRole != tt.wantRole {
				t.Errorf("role = %q, want %q", local.signupRole, tt.wantRole)
			}
			if tt.err == nil && !strings.Contains(rec.Body.String(), "User created successfully") {
				t.Errorf("body = %s", rec.Body.String())
			}
		})
	}
}

func TestLogin(t *testing.T) {
	local := &fakeLocalAuth{}
	rec := post(newRouter(local, &config.GGAuthConfig{}), "/loginadmin", `{"username":"root","password":"pw"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if local.loginRole != domain.RoleAdmin {
		t.Errorf("role = %q, want admin", local.loginRole)
	}

	var resp domain.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token != "token-for-root" || resp.Username != "root" {
		t.Errorf("response = %+v", resp)
	}
}

func TestLogin_Rejected(t *testing.T) {
	for _, err := range []error{errs.UserNotFound, errs.InvalidCredentials} {
		rec := post(newRouter(&fakeLocalAuth{loginErr: err}, &config.GGAuthConfig{}), "/login", `{"username":"x","password":"y"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%v: status = %d, want 400", err, rec.Code)
		}
	}
}

func TestGoogleRoutes_DisabledWithoutCredentials(t *testing.T) {
	r := newRouter(&fakeLocalAuth{}, &config.GGAuthConfig{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGoogleCallback_RejectsStateMismatch(t *testing.T) {
	r := mux.NewRouter()
	NewHandler(logging.NewNopLogger()).RegisterRoutes(r, &ServiceDependencies{
		LocalAuthService: &fakeLocalAuth{},
		GGAuthService:    &fakeLocalAuth{},
		GGAuthConfig:     &config.GGAuthConfig{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/auth/callback"},
	})

	login := httptest.NewRecorder()
	r.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	if login.Code != http.StatusTemporaryRedirect {
		t.Fatalf("login status = %d", login.Code)
	}
	if !strings.Contains(login.Header().Get("Location"), "accounts.google.com") {
		t.Errorf("location = %q", login.Header().Get("Location"))
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?state=forged&code=abc", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
