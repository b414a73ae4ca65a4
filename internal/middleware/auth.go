package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"mockmate/internal/models"
	"mockmate/internal/repositories"
	"mockmate/internal/utils"
)

const (
	// SessionCookie carries the signed session token for browser navigations.
	SessionCookie = "mm_session"
	// LoginPath is where unauthenticated page navigations are redirected.
	LoginPath = "/login"

	sessionTTL = 24 * time.Hour
)

// ProtectedPrefixes are the page paths behind the session gate. Everything
// else is public.
var ProtectedPrefixes = []string{"/dashboard", "/analytics", "/interview", "/results"}

const userIDKey contextKey = "user_id"

// SessionClaims are the JWT claims backing one login session.
type SessionClaims struct {
	UserID    string `json:"uid"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Auth issues and verifies session tokens. A token is only valid while its
// session record exists in the store, so logout revokes it immediately.
type Auth struct {
	Secret   []byte
	Sessions repositories.SessionStore
}

// Issue creates a session record and returns the signed token for it.
func (a *Auth) Issue(ctx context.Context, userID string) (string, error) {
	sessionID := uuid.New().String()
	now := time.Now()
	claims := SessionClaims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.Secret)
	if err != nil {
		return "", err
	}
	if err := a.Sessions.Put(ctx, sessionID, userID, sessionTTL); err != nil {
		return "", err
	}
	return signed, nil
}

// Revoke deletes the session record for the given token, if it parses.
func (a *Auth) Revoke(ctx context.Context, tokenString string) error {
	claims, err := a.parse(tokenString)
	if err != nil {
		return err
	}
	return a.Sessions.Delete(ctx, claims.SessionID)
}

// SetCookie attaches the session token for browser navigations.
func SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionTTL.Seconds()),
	})
}

// ClearCookie removes the session cookie on logout.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func (a *Auth) parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	return claims, nil
}

// resolve extracts credentials from the bearer header or the session cookie
// and checks the session record is still live.
func (a *Auth) resolve(r *http.Request) (string, error) {
	tokenString := ""
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		tokenString = strings.TrimPrefix(h, "Bearer ")
	} else if c, err := r.Cookie(SessionCookie); err == nil {
		tokenString = c.Value
	}
	if tokenString == "" {
		return "", errors.New("no credentials")
	}

	claims, err := a.parse(tokenString)
	if err != nil {
		return "", err
	}
	storedUser, err := a.Sessions.Get(r.Context(), claims.SessionID)
	if err != nil || storedUser != claims.UserID {
		return "", errors.New("session revoked")
	}
	return claims.UserID, nil
}

// RequireAPI guards JSON API routes: no valid session means 401.
func (a *Auth) RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := a.resolve(r)
		if err != nil {
			utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
				Code:    "unauthorized",
				Message: "Unauthorized",
			})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// GatePages guards browser navigations: requests under a protected prefix
// without a valid session are redirected to the login page. A failed check
// is always a hard redirect, never a fail-through.
func (a *Auth) GatePages(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isProtectedPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		userID, err := a.resolve(r)
		if err != nil {
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func isProtectedPath(path string) bool {
	for _, prefix := range ProtectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// WithUserID stores the authenticated user id on the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID retrieves the authenticated user id set by the auth middleware.
func UserID(r *http.Request) string {
	if id, ok := r.Context().Value(userIDKey).(string); ok {
		return id
	}
	return ""
}
