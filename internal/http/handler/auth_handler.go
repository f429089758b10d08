package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/accountd/accountd/internal/http/middleware"
	"github.com/accountd/accountd/internal/http/response"
	"github.com/accountd/accountd/internal/observability"
	"github.com/accountd/accountd/internal/security"
	"github.com/accountd/accountd/internal/service"
)

// AuthHandler is the thin transport shell: it parses request fields, invokes
// one core operation, and forwards the structured result. All business rules
// live in the service.
type AuthHandler struct {
	authSvc    service.AuthServiceInterface
	cookieMgr  *security.CookieManager
	sessionTTL time.Duration
}

func NewAuthHandler(authSvc service.AuthServiceInterface, cookieMgr *security.CookieManager, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, cookieMgr: cookieMgr, sessionTTL: sessionTTL}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyEmailRequest struct {
	OTP string `json:"otp"`
}

type sendResetOTPRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	outcome := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "register", outcome, time.Since(start))
	}()

	var req registerRequest
	decodeBody(r, &req)
	result, err := h.authSvc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		outcome = "failure"
		observability.RecordAuthAttempt(r.Context(), "register", "failure")
		writeServiceError(w, r, err)
		return
	}
	h.cookieMgr.SetSessionCookie(w, result.Token, h.sessionTTL)
	observability.RecordAuthAttempt(r.Context(), "register", "success")
	response.OK(w, r, "")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	outcome := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "login", outcome, time.Since(start))
	}()

	var req loginRequest
	decodeBody(r, &req)
	result, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		outcome = "failure"
		observability.RecordAuthAttempt(r.Context(), "login", "failure")
		writeServiceError(w, r, err)
		return
	}
	h.cookieMgr.SetSessionCookie(w, result.Token, h.sessionTTL)
	observability.RecordAuthAttempt(r.Context(), "login", "success")
	response.OK(w, r, "")
}

// Logout is stateless from the core's perspective: it only instructs
// transport to discard the session artifact. The token itself stays valid
// until natural expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookieMgr.ClearSessionCookie(w)
	observability.RecordAuthAttempt(r.Context(), "logout", "success")
	response.OK(w, r, "logged out")
}

func (h *AuthHandler) SendVerifyOTP(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		response.Fail(w, r, http.StatusUnauthorized, "not authorized, login again")
		return
	}
	if err := h.authSvc.SendVerifyOTP(r.Context(), accountID); err != nil {
		observability.RecordOTPIssued(r.Context(), "verify", "failure")
		writeServiceError(w, r, err)
		return
	}
	observability.RecordOTPIssued(r.Context(), "verify", "success")
	response.OK(w, r, "verification otp sent on email.")
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		response.Fail(w, r, http.StatusUnauthorized, "not authorized, login again")
		return
	}
	var req verifyEmailRequest
	decodeBody(r, &req)
	if err := h.authSvc.VerifyEmail(r.Context(), accountID, req.OTP); err != nil {
		observability.RecordOTPConsumed(r.Context(), "verify", "failure")
		writeServiceError(w, r, err)
		return
	}
	observability.RecordOTPConsumed(r.Context(), "verify", "success")
	response.OK(w, r, "Email verified successfully")
}

// IsAuthenticated is a read-only confirmation: the auth middleware already
// verified the token before this handler runs.
func (h *AuthHandler) IsAuthenticated(w http.ResponseWriter, r *http.Request) {
	response.OK(w, r, "")
}

func (h *AuthHandler) SendResetOTP(w http.ResponseWriter, r *http.Request) {
	var req sendResetOTPRequest
	decodeBody(r, &req)
	if err := h.authSvc.SendResetOTP(r.Context(), req.Email); err != nil {
		observability.RecordOTPIssued(r.Context(), "reset", "failure")
		writeServiceError(w, r, err)
		return
	}
	observability.RecordOTPIssued(r.Context(), "reset", "success")
	response.OK(w, r, "OTP sent to your email.")
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	decodeBody(r, &req)
	if err := h.authSvc.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		observability.RecordOTPConsumed(r.Context(), "reset", "failure")
		writeServiceError(w, r, err)
		return
	}
	observability.RecordOTPConsumed(r.Context(), "reset", "success")
	response.OK(w, r, "Password has been reset successfully")
}

// decodeBody tolerates an empty or malformed body: missing fields surface as
// the operation's own validation error, matching the service's messages.
func decodeBody(r *http.Request, v any) {
	if r.Body == nil {
		return
	}
	_ = json.NewDecoder(r.Body).Decode(v)
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch service.KindOf(err) {
	case service.KindValidation:
		response.Fail(w, r, http.StatusBadRequest, err.Error())
	case service.KindConflict:
		response.Fail(w, r, http.StatusConflict, err.Error())
	case service.KindNotFound:
		response.Fail(w, r, http.StatusNotFound, err.Error())
	case service.KindAuth, service.KindExpired:
		response.Fail(w, r, http.StatusUnauthorized, err.Error())
	case service.KindDependency:
		response.Fail(w, r, http.StatusBadGateway, err.Error())
	default:
		response.Fail(w, r, http.StatusInternalServerError, "internal error")
	}
}
