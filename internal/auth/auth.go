// Package auth is the gallery's identity provider: email/password sign-in,
// JWT access and refresh tokens, and the middleware that restores a session
// into the request's session.Gate.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vidgallery/vidgallery/internal/database"
	"github.com/vidgallery/vidgallery/internal/httputil"
	"github.com/vidgallery/vidgallery/internal/metrics"
	"github.com/vidgallery/vidgallery/internal/session"
	"github.com/vidgallery/vidgallery/internal/validate"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"
	refreshPath   = "/api/auth"
)

const (
	MsgInvalidCredentials = "Invalid email or password."
	MsgAccessDenied       = "Access denied. This account is not authorized."
	MsgTooManyAttempts    = "Too many failed attempts. Please try again later."
)

var ErrEmailTaken = errors.New("email already registered")

type Handler struct {
	db            database.DBTX
	jwtSecret     string
	adminID       string
	secureCookies bool
}

func NewHandler(db database.DBTX, jwtSecret, adminID string, secureCookies bool) *Handler {
	return &Handler{db: db, jwtSecret: jwtSecret, adminID: adminID, secureCookies: secureCookies}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string             `json:"accessToken"`
	User        *session.Principal `json:"user,omitempty"`
	Admin       bool               `json:"admin"`
}

type sessionResponse struct {
	Authenticated bool               `json:"authenticated"`
	Admin         bool               `json:"admin"`
	User          *session.Principal `json:"user,omitempty"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	var userID, email, hashedPassword string
	err := h.db.QueryRow(r.Context(),
		"SELECT id, email, password FROM users WHERE email = $1", req.Email,
	).Scan(&userID, &email, &hashedPassword)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues("invalid").Inc()
		httputil.WriteError(w, http.StatusUnauthorized, MsgInvalidCredentials)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(req.Password)); err != nil {
		metrics.SignInsTotal.WithLabelValues("invalid").Inc()
		httputil.WriteError(w, http.StatusUnauthorized, MsgInvalidCredentials)
		return
	}

	gate := h.gate(r)
	principal := session.Principal{ID: userID, Email: email}
	if err := gate.SignIn(principal); err != nil {
		slog.Warn("auth: sign-in by non-admin account rejected", "user_id", userID)
		metrics.SignInsTotal.WithLabelValues("forbidden").Inc()
		h.clearCookies(w)
		httputil.WriteError(w, http.StatusForbidden, MsgAccessDenied)
		return
	}

	accessToken, refreshToken, err := h.issueTokens(r.Context(), userID, email)
	if err != nil {
		slog.Error("auth: failed to issue tokens", "user_id", userID, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to generate tokens")
		return
	}

	metrics.SignInsTotal.WithLabelValues("ok").Inc()
	h.setTokenCookies(w, accessToken, refreshToken)
	httputil.WriteJSON(w, http.StatusOK, tokenResponse{AccessToken: accessToken, User: &principal, Admin: true})
}

// Refresh rotates the refresh token. It restores the session passively, so a
// principal that is no longer the admin stays signed in without admin rights.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookie)
	if err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "refresh token not found")
		return
	}

	claims, err := validateKind(h.jwtSecret, cookie.Value, KindRefresh)
	if err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	if err := h.validateStoredRefreshToken(r.Context(), claims.UserID, claims.TokenID); err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	if err := h.revokeRefreshToken(r.Context(), claims.TokenID); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to revoke refresh token")
		return
	}

	accessToken, refreshToken, err := h.issueTokens(r.Context(), claims.UserID, claims.Email)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to generate tokens")
		return
	}

	gate := h.gate(r)
	principal := claims.Principal()
	gate.Restore(principal)

	h.setTokenCookies(w, accessToken, refreshToken)
	httputil.WriteJSON(w, http.StatusOK, tokenResponse{AccessToken: accessToken, User: &principal, Admin: gate.IsAdmin()})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshCookie); err == nil {
		if claims, err := validateKind(h.jwtSecret, cookie.Value, KindRefresh); err == nil {
			_ = h.revokeRefreshToken(r.Context(), claims.TokenID)
		}
	}
	h.gate(r).SignOut()
	h.clearCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

// Session reports the state of the request's gate as restored by Middleware.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	state := h.gate(r).State()
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{
		Authenticated: state.Status == session.Authenticated,
		Admin:         state.Admin,
		User:          state.Principal,
	})
}

// Middleware attaches a session.Gate to every request and restores the
// principal from a Bearer header or the access cookie. Missing or invalid
// tokens leave the gate unauthenticated; the request is never rejected here.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gate := session.NewGate(h.adminID)

		if tokenStr := accessTokenFromRequest(r); tokenStr != "" {
			if claims, err := validateKind(h.jwtSecret, tokenStr, KindAccess); err == nil {
				gate.Restore(claims.Principal())
			}
		}

		ctx := session.WithGate(r.Context(), gate)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// gate returns the request's gate, or a fresh one for handlers mounted
// without Middleware.
func (h *Handler) gate(r *http.Request) *session.Gate {
	if g, ok := session.Lookup(r.Context()); ok {
		return g
	}
	return session.NewGate(h.adminID)
}

func accessTokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		tokenStr, _ := strings.CutPrefix(authHeader, "Bearer ")
		return tokenStr
	}
	if cookie, err := r.Cookie(accessCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// CreateUser stores a new account and returns its id. The admin principal is
// whichever account id the configuration names.
func CreateUser(ctx context.Context, db database.DBTX, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if msg := validate.Email(email); msg != "" {
		return "", errors.New(msg)
	}
	if msg := validate.Password(password); msg != "" {
		return "", errors.New(msg)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	var userID string
	err = db.QueryRow(ctx,
		"INSERT INTO users (email, password) VALUES ($1, $2) RETURNING id",
		email, string(hashedPassword),
	).Scan(&userID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("insert user: %w", err)
	}
	return userID, nil
}

func (h *Handler) setTokenCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookie,
		Value:    accessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(AccessTokenDuration / time.Second),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    refreshToken,
		Path:     refreshPath,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(RefreshTokenDuration / time.Second),
	})
}

func (h *Handler) clearCookies(w http.ResponseWriter) {
	for _, c := range []struct{ name, path string }{{accessCookie, "/"}, {refreshCookie, refreshPath}} {
		http.SetCookie(w, &http.Cookie{
			Name:     c.name,
			Value:    "",
			Path:     c.path,
			HttpOnly: true,
			Secure:   h.secureCookies,
			SameSite: http.SameSiteStrictMode,
			MaxAge:   -1,
		})
	}
}

func (h *Handler) issueTokens(ctx context.Context, userID, email string) (accessToken, refreshToken string, err error) {
	tokenID := newTokenID()

	expiresAt := time.Now().Add(RefreshTokenDuration)
	if _, err := h.db.Exec(ctx, "INSERT INTO refresh_tokens (token_id, user_id, expires_at, revoked) VALUES ($1, $2, $3, false)", tokenID, userID, expiresAt); err != nil {
		return "", "", err
	}

	accessToken, err = GenerateAccessToken(h.jwtSecret, userID, email)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = GenerateRefreshToken(h.jwtSecret, userID, email, tokenID)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (h *Handler) validateStoredRefreshToken(ctx context.Context, userID, tokenID string) error {
	var revoked bool
	var expiresAt time.Time
	err := h.db.QueryRow(ctx, "SELECT revoked, expires_at FROM refresh_tokens WHERE token_id = $1 AND user_id = $2", tokenID, userID).Scan(&revoked, &expiresAt)
	if err != nil {
		return err
	}
	if revoked || time.Now().After(expiresAt) {
		return errors.New("token revoked or expired")
	}
	return nil
}

func (h *Handler) revokeRefreshToken(ctx context.Context, tokenID string) error {
	_, err := h.db.Exec(ctx, "UPDATE refresh_tokens SET revoked = true, revoked_at = now() WHERE token_id = $1", tokenID)
	return err
}
