package controllers

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"peakgear/config"
	"peakgear/middleware"
	"peakgear/models"
	"peakgear/store"
	"peakgear/utils"
)

const (
	bcryptCost       = 12
	resetTokenTTL    = time.Hour
	resetRateWindow  = 15 * time.Minute
	resetRateMax     = 3
	minPasswordChars = 6
)

// AuthController handles registration, login and the password-reset flow
type AuthController struct {
	Store    store.Storage
	Email    *utils.EmailService
	Cfg      config.App
	Validate *validator.Validate

	resetLimiter *rateLimiter
}

// NewAuthController creates a new AuthController
func NewAuthController(st store.Storage, email *utils.EmailService, cfg config.App, validate *validator.Validate) *AuthController {
	return &AuthController{
		Store:        st,
		Email:        email,
		Cfg:          cfg,
		Validate:     validate,
		resetLimiter: newRateLimiter(resetRateWindow, resetRateMax),
	}
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Register creates an account and establishes a session
func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := ac.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Email and a password of at least 6 characters are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := ac.Store.GetUserByEmail(ctx, req.Email); err == nil {
		writeError(w, http.StatusBadRequest, "User already exists with this email")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		slog.Error("register: user lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user := &models.User{
		ID:        uuid.NewString(),
		Email:     req.Email,
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := ac.Store.CreateUser(ctx, user); err != nil {
		slog.Error("register: create user failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := ac.issueSession(ctx, w, user.ID); err != nil {
		slog.Error("register: session creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Welcome email is best-effort; registration succeeds either way
	go func(email, firstName string) {
		if err := ac.Email.SendWelcomeEmail(email, firstName); err != nil {
			slog.Error("failed to send welcome email", "to", email, "error", err)
		}
	}(user.Email, user.FirstName)

	writeJSON(w, http.StatusCreated, user)
}

// Login authenticates by email and password and establishes a session
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if creds.Email == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := ac.Store.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("login: user lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := ac.issueSession(ctx, w, user.ID); err != nil {
		slog.Error("login: session creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Logout destroys the current session, if any
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := ac.Store.DeleteSession(ctx, cookie.Value); err != nil {
			slog.Error("logout: session delete failed", "error", err)
		}
	}
	ac.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// CurrentUser returns the authenticated user
func (ac *AuthController) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ForgotPassword starts the reset flow. The response never reveals
// whether the email is registered.
func (ac *AuthController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	if !ac.resetLimiter.allow(clientIP(r) + ":" + req.Email) {
		writeError(w, http.StatusTooManyRequests, "Too many password reset attempts. Please try again in 15 minutes.")
		return
	}

	neutral := map[string]string{"message": "If an account with that email exists, you will receive a password reset link."}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := ac.Store.GetUserByEmail(ctx, req.Email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusOK, neutral)
			return
		}
		slog.Error("forgot-password: user lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	token := hex.EncodeToString(raw)
	// Only the hash is stored, so a database leak does not expose live tokens
	hashed := sha256.Sum256([]byte(token))

	err := ac.Store.SetPasswordResetToken(ctx, req.Email, hex.EncodeToString(hashed[:]), time.Now().UTC().Add(resetTokenTTL))
	if err != nil {
		slog.Error("forgot-password: token save failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resetURL := ac.Cfg.PublicBaseURL + "/reset-password?token=" + token
	go func(email, url string) {
		if err := ac.Email.SendPasswordResetEmail(email, url); err != nil {
			slog.Error("failed to send reset email", "to", email, "error", err)
		}
	}(req.Email, resetURL)

	writeJSON(w, http.StatusOK, neutral)
}

// ResetPassword completes the reset flow and invalidates every session
// the user had
func (ac *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "Token and new password are required")
		return
	}
	if len(req.NewPassword) < minPasswordChars {
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	hashed := sha256.Sum256([]byte(req.Token))
	user, err := ac.Store.GetUserByResetToken(ctx, hex.EncodeToString(hashed[:]))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Invalid or expired reset token")
			return
		}
		slog.Error("reset-password: token lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if err := ac.Store.UpdatePassword(ctx, user.ID, string(newHash)); err != nil {
		slog.Error("reset-password: password update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if err := ac.Store.ClearPasswordResetToken(ctx, user.ID); err != nil {
		slog.Error("reset-password: token clear failed", "error", err)
	}

	if n, err := ac.Store.DeleteSessionsByUser(ctx, user.ID); err != nil {
		slog.Error("reset-password: session invalidation failed", "error", err)
	} else {
		slog.Info("invalidated sessions after password reset", "user", user.ID, "count", n)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password has been reset successfully"})
}

func (ac *AuthController) issueSession(ctx context.Context, w http.ResponseWriter, userID string) error {
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(ac.Cfg.SessionTTL),
	}
	if err := ac.Store.CreateSession(ctx, session); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   ac.Cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ac.Cfg.SessionTTL.Seconds()),
	})
	return nil
}

func (ac *AuthController) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// clientIP prefers X-Forwarded-For since the service runs behind a proxy
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
