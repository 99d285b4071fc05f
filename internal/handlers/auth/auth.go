package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"gitlab.com/judgerunner.net/internal/config"
	"gitlab.com/judgerunner.net/internal/core/ports/primary"
	"gitlab.com/judgerunner.net/internal/core/services/auth"
	"gitlab.com/judgerunner.net/internal/domain"
	"gitlab.com/judgerunner.net/internal/handlers/response"
	"gitlab.com/judgerunner.net/internal/static/errs"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	stateCookie       = "oauth_state"
)

type ServiceDependencies struct {
	GGAuthService    auth.IAuthService
	LocalAuthService auth.LocalAuthService
	GGAuthConfig     *config.GGAuthConfig
}

// GoogleUser struct to decode Google API response
type GoogleUser struct {
	ID    string `json:"sub"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Credentials is the body of the signup and login endpoints
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Handler struct {
	providerHandler map[domain.Provider]auth.IAuthService
	signup          auth.ISignupService
	oauthConfig     *oauth2.Config
	userInfoURL     string
	logger          primary.Logger
}

func NewHandler(logger primary.Logger) *Handler {
	return &Handler{
		providerHandler: make(map[domain.Provider]auth.IAuthService),
		userInfoURL:     googleUserInfoURL,
		logger:          logger,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router, svcDep *ServiceDependencies) {
	h.providerHandler[domain.ProviderLocal] = svcDep.LocalAuthService
	h.signup = svcDep.LocalAuthService

	router.HandleFunc("/signup", h.signupHandler(domain.RoleUser)).Methods(http.MethodPost)
	router.HandleFunc("/signupadmin", h.signupHandler(domain.RoleAdmin)).Methods(http.MethodPost)
	router.HandleFunc("/login", h.loginHandler(domain.RoleUser)).Methods(http.MethodPost)
	router.HandleFunc("/loginadmin", h.loginHandler(domain.RoleAdmin)).Methods(http.MethodPost)

	if svcDep.GGAuthService == nil || svcDep.GGAuthConfig == nil || !svcDep.GGAuthConfig.Enabled() {
		h.logger.Info("Google login disabled")
		return
	}
	h.providerHandler[domain.ProviderGoogle] = svcDep.GGAuthService
	h.oauthConfig = &oauth2.Config{
		ClientID:     svcDep.GGAuthConfig.ClientID,
		ClientSecret: svcDep.GGAuthConfig.ClientSecret,
		RedirectURL:  svcDep.GGAuthConfig.RedirectURL,
		Scopes:       []string{"profile", "email"},
		Endpoint:     google.Endpoint,
	}
	router.HandleFunc("/auth/google", h.GoogleLoginHandler).Methods(http.MethodGet)
	router.HandleFunc("/auth/callback", h.GoogleCallbackHandler).Methods(http.MethodGet)
}

func (h *Handler) signupHandler(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			response.WriteError(w, response.ErrorMessage{Message: "Invalid request", StatusCode: http.StatusBadRequest})
			return
		}

		err := h.signup.Signup(r.Context(), creds.Username, creds.Password, role)
		switch {
		case err == nil:
			response.WriteSuccess(w, map[string]string{"message": "User created successfully"})
		case errors.Is(err, errs.UserAlreadyExists), errors.Is(err, errs.MissingCredentials):
			response.WriteError(w, response.ErrorMessage{Message: err.Error(), StatusCode: http.StatusBadRequest})
		default:
			h.logger.Error("Signup failed", "user", creds.Username, "error", err)
			response.WriteError(w, response.ErrorMessage{Message: "Error creating user", StatusCode: http.StatusInternalServerError})
		}
	}
}

func (h *Handler) loginHandler(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			response.WriteError(w, response.ErrorMessage{Message: "Invalid request", StatusCode: http.StatusBadRequest})
			return
		}

		password := creds.Password
		token, err := h.providerHandler[domain.ProviderLocal].Login(r.Context(), &domain.Users{
			UserName:     creds.Username,
			PasswordHash: &password,
			Role:         role,
			AuthProvider: string(domain.ProviderLocal),
		})
		switch {
		case err == nil:
			response.WriteSuccess(w, domain.LoginResponse{
				Message:  "Login successful",
				Token:    token,
				Username: creds.Username,
			})
		case errors.Is(err, errs.UserNotFound), errors.Is(err, errs.InvalidCredentials), errors.Is(err, errs.MissingCredentials):
			response.WriteError(w, response.ErrorMessage{Message: err.Error(), StatusCode: http.StatusBadRequest})
		default:
			h.logger.Error("Login failed", "user", creds.Username, "error", err)
			response.WriteError(w, response.ErrorMessage{Message: "Server error", StatusCode: http.StatusInternalServerError})
		}
	}
}

// GoogleLoginHandler redirects user to Google OAuth2 login
func (h *Handler) GoogleLoginHandler(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
	})
	http.Redirect(w, r, h.oauthConfig.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallbackHandler handles Google OAuth2 callback
func (h *Handler) GoogleCallbackHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		response.WriteError(w, response.ErrorMessage{Message: "Invalid OAuth state", StatusCode: http.StatusBadRequest})
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		response.WriteError(w, response.ErrorMessage{Message: "No code in URL", StatusCode: http.StatusBadRequest})
		return
	}

	token, err := h.oauthConfig.Exchange(ctx, code)
	if err != nil {
		h.logger.Error("Failed to exchange OAuth code", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Failed to get token", StatusCode: http.StatusInternalServerError})
		return
	}

	googleUser, err := h.fetchGoogleUser(ctx, token)
	if err != nil {
		h.logger.Error("Failed to get user info", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Failed to get user info", StatusCode: http.StatusInternalServerError})
		return
	}

	tokenStr, err := h.providerHandler[domain.ProviderGoogle].Login(ctx, &domain.Users{
		GoogleID:     &googleUser.ID,
		Email:        &googleUser.Email,
		AuthProvider: string(domain.ProviderGoogle),
	})
	if err != nil {
		response.WriteError(w, response.ErrorMessage{
			Message:    err.Error(),
			StatusCode: http.StatusUnauthorized,
		})
		return
	}

	response.WriteSuccess(w, domain.LoginResponse{
		Message:  "Login successful",
		Token:    tokenStr,
		Username: googleUser.Name,
	})
}

func (h *Handler) fetchGoogleUser(ctx context.Context, token *oauth2.Token) (*GoogleUser, error) {
	resp, err := h.oauthConfig.Client(ctx, token).Get(h.userInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var googleUser GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		return nil, err
	}
	return &googleUser, nil
}
