package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/haguru/bloguser/config"
	"github.com/haguru/bloguser/internal/auth"
	"github.com/haguru/bloguser/internal/interfaces"
	"github.com/haguru/bloguser/internal/metrics"
	"github.com/haguru/bloguser/internal/models/dto"
	"github.com/haguru/bloguser/internal/session"
	"github.com/haguru/bloguser/internal/userservice"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Route struct {
	Metrics      interfaces.Metrics
	UserService  interfaces.UserService
	Signer       *auth.CookieSigner
	Cookie       config.CookieConfig
	Logger       interfaces.Logger
	HealthChecks map[string]HealthCheck
}

// NewRoute creates a new Route instance.
func NewRoute(metrics interfaces.Metrics, userService interfaces.UserService, signer *auth.CookieSigner,
	cookie config.CookieConfig, logger interfaces.Logger,
) *Route {
	return &Route{
		Metrics:      metrics,
		UserService:  userService,
		Signer:       signer,
		Cookie:       cookie,
		Logger:       logger,
		HealthChecks: map[string]HealthCheck{},
	}
}

// AddHealthCheck registers a dependency probed by Healthz.
func (r *Route) AddHealthCheck(name string, check HealthCheck) {
	r.HealthChecks[name] = check
}

// Signup handles user signup requests.
func (r *Route) Signup(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w, http.MethodPost)
		return
	}

	r.incCounter(metrics.SignupRequestsTotal)

	signupRequest := dto.UserSignupRequestDTO{}
	if !r.decodeJSON(w, req, &signupRequest) {
		r.incCounter(metrics.SignupErrorsTotal)
		return
	}

	startTime := time.Now()
	user, err := r.UserService.RegisterUser(req.Context(), signupRequest)
	r.observeSince(metrics.SignupDurationSeconds, startTime)
	if err != nil {
		r.incCounter(metrics.SignupErrorsTotal)
		status, body := statusFor(err)
		r.errorResponse(w, status, body, MsgSignupFailed)
		return
	}

	r.incCounter(metrics.SignupSuccessTotal)

	r.writeJSON(w, http.StatusCreated, &dto.UserSignupResponseDTO{
		Message: fmt.Sprintf(MsgUserCreatedFormat, user.ID),
		UserID:  user.ID,
	})
}

// Login authenticates the user, opens a session and sets the signed session
// cookie.
func (r *Route) Login(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w, http.MethodPost)
		return
	}

	r.incCounter(metrics.LoginRequestsTotal)

	loginRequest := dto.LoginRequestDTO{}
	if !r.decodeJSON(w, req, &loginRequest) {
		r.incCounterVec(metrics.LoginFailuresTotal, ReasonValidation)
		return
	}

	startTime := time.Now()
	user, sess, err := r.UserService.Login(req.Context(), loginRequest)
	r.observeSince(metrics.LoginDurationSeconds, startTime)
	if err != nil {
		r.incCounterVec(metrics.LoginFailuresTotal, failureReason(err))
		status, body := statusFor(err)
		r.errorResponse(w, status, body, MsgLoginFailed)
		return
	}

	cookieValue, err := r.Signer.Sign(sess)
	if err != nil {
		r.Logger.Error(ErrFailedToSignCookie, "user_id", user.ID, "error", err)
		if endErr := r.UserService.Logout(req.Context(), sess.Token); endErr != nil {
			r.Logger.Warn("Failed to end unsigned session", "user_id", user.ID, "error", endErr)
		}
		r.incCounterVec(metrics.LoginFailuresTotal, ReasonInternal)
		r.errorResponse(w, http.StatusInternalServerError, errInternal, MsgLoginFailed)
		return
	}

	http.SetCookie(w, r.sessionCookie(cookieValue, sess.ExpiresAt))
	r.incCounter(metrics.LoginSuccessTotal)
	r.incCounter(metrics.SessionsIssuedTotal)

	r.writeJSON(w, http.StatusOK, &dto.LoginResponseDTO{
		Message: MsgLoginSuccessful,
		UserID:  user.ID,
	})
}

// Logout ends the session named by the cookie and clears it.
func (r *Route) Logout(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w, http.MethodPost)
		return
	}

	token, err := r.sessionToken(req)
	if err == nil {
		err = r.UserService.Logout(req.Context(), token)
	}
	if err != nil {
		status, body := statusFor(err)
		if status == http.StatusUnauthorized {
			http.SetCookie(w, r.expiredCookie())
		}
		r.errorResponse(w, status, body, MsgNotAuthenticated)
		return
	}

	http.SetCookie(w, r.expiredCookie())
	r.incCounter(metrics.LogoutTotal)

	r.writeJSON(w, http.StatusOK, &dto.LogoutResponseDTO{Message: MsgLogoutSuccessful})
}

// Me returns the user owning the session cookie.
func (r *Route) Me(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w, http.MethodGet)
		return
	}

	token, err := r.sessionToken(req)
	if err != nil {
		r.errorResponse(w, http.StatusUnauthorized, err, MsgNotAuthenticated)
		return
	}

	user, err := r.UserService.CurrentUser(req.Context(), token)
	if err != nil {
		// the session outlived its user
		if errors.Is(err, userservice.ErrUserNotFound) {
			err = session.ErrSessionNotFound
		}
		status, body := statusFor(err)
		r.errorResponse(w, status, body, MsgNotAuthenticated)
		return
	}

	r.writeJSON(w, http.StatusOK, &user)
}

// GetUser returns the public view of the user named in the path.
func (r *Route) GetUser(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w, http.MethodGet)
		return
	}

	id, err := strconv.ParseInt(req.PathValue(UserIDPathValue), 10, 64)
	if err != nil || id <= 0 {
		r.errorResponse(w, http.StatusBadRequest,
			&dto.APIError{Code: CodeInvalidUserID, Message: ErrInvalidUserID}, ErrInvalidUserID)
		return
	}

	user, err := r.UserService.GetUser(req.Context(), id)
	if err != nil {
		status, body := statusFor(err)
		r.errorResponse(w, status, body, MsgUserLookupFailed)
		return
	}

	r.writeJSON(w, http.StatusOK, &user)
}

// Healthz pings every registered dependency.
func (r *Route) Healthz(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w, http.MethodGet)
		return
	}

	names := make([]string, 0, len(r.HealthChecks))
	for name := range r.HealthChecks {
		names = append(names, name)
	}
	sort.Strings(names)

	ctx, cancel := context.WithTimeout(req.Context(), HealthCheckTimeout)
	defer cancel()

	response := &dto.HealthResponse{Status: MsgHealthy, Checks: make(map[string]string, len(names))}
	status := http.StatusOK
	for _, name := range names {
		if err := r.HealthChecks[name](ctx); err != nil {
			r.Logger.Warn(ErrHealthCheckFailed, "check", name, "error", err)
			response.Checks[name] = MsgUnhealthy
			response.Status = MsgUnhealthy
			status = http.StatusServiceUnavailable
			continue
		}
		response.Checks[name] = MsgHealthy
	}

	r.writeJSON(w, status, response)
}

// sessionToken extracts the opaque session token from the signed cookie. Any
// problem with the cookie reads as an unknown session.
func (r *Route) sessionToken(req *http.Request) (string, error) {
	cookie, err := req.Cookie(r.Cookie.Name)
	if err != nil || cookie.Value == "" {
		return "", session.ErrSessionNotFound
	}

	claims, err := r.Signer.Verify(cookie.Value)
	if err != nil {
		r.Logger.Debug(ErrInvalidSessionCookie, "error", err)
		return "", session.ErrSessionNotFound
	}

	return claims.SessionID, nil
}

func (r *Route) sessionCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     r.Cookie.Name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   r.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (r *Route) expiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     r.Cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// decodeJSON checks the content type and decodes the body into dst. It
// writes the error response itself and reports whether decoding succeeded.
func (r *Route) decodeJSON(w http.ResponseWriter, req *http.Request, dst any) bool {
	mediaType, _, err := mime.ParseMediaType(req.Header.Get(ContentType))
	if err != nil || mediaType != ContentTypeJson {
		r.errorResponse(w, http.StatusBadRequest,
			&dto.APIError{Code: CodeInvalidContentType, Message: ErrInvalidContentType}, ErrInvalidContentType)
		return false
	}

	decoder := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxRequestBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		r.errorResponse(w, http.StatusBadRequest,
			&dto.APIError{Code: CodeInvalidRequestBody, Message: ErrInvalidRequestBody}, ErrInvalidRequestBody)
		return false
	}

	return true
}

func (r *Route) methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	r.errorResponse(w, http.StatusMethodNotAllowed,
		&dto.APIError{Code: CodeMethodNotAllowed, Message: ErrMethodNotAllowed}, ErrMethodNotAllowed)
}

func (r *Route) errorResponse(w http.ResponseWriter, status int, body any, message string) {
	r.writeJSON(w, status, &dto.ErrorResponse{
		Error:   body,
		Message: message,
	})
}

func (r *Route) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		r.Logger.Error(ErrFailedToEncodeResponse, "error", err)
	}
}

func (r *Route) incCounter(name string) {
	if r.Metrics != nil {
		r.Metrics.IncCounter(name)
	}
}

func (r *Route) incCounterVec(name string, labels ...string) {
	if r.Metrics != nil {
		r.Metrics.IncCounterVec(name, labels...)
	}
}

func (r *Route) observeSince(name string, start time.Time) {
	if r.Metrics != nil {
		r.Metrics.ObserveHistogram(name, time.Since(start).Seconds())
	}
}
