package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"mockmate/internal/middleware"
	"mockmate/internal/models"
	"mockmate/internal/repositories"
	"mockmate/internal/testhelpers"
)

func newAuthTestStack(t *testing.T) (*AuthHandler, *middleware.Auth, *repositories.UserRepository) {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	repo := &repositories.UserRepository{DB: db}
	auth := &middleware.Auth{Secret: []byte("test-secret"), Sessions: testhelpers.NewMemorySessionStore()}
	return NewAuthHandler(repo, auth, zap.NewNop()), auth, repo
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func registerUser(t *testing.T, h *AuthHandler, username, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	handler := middleware.ValidateRequest[*models.RegisterRequest]()(http.HandlerFunc(h.RegisterHandler))
	return postJSON(t, handler, "/api/v1/auth/register", models.RegisterRequest{
		Username: username, Email: email, Password: password,
	})
}

func loginUser(t *testing.T, h *AuthHandler, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	handler := middleware.ValidateRequest[*models.LoginRequest]()(http.HandlerFunc(h.LoginHandler))
	return postJSON(t, handler, "/api/v1/auth/login", models.LoginRequest{
		Username: username, Password: password,
	})
}

func TestRegisterHandler(t *testing.T) {
	t.Run("creates the user", func(t *testing.T) {
		h, _, repo := newAuthTestStack(t)

		rec := registerUser(t, h, "alice", "alice@example.com", "str0ng-pass!")
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		user, err := repo.GetUserByUsername("alice")
		if err != nil || user == nil {
			t.Fatalf("user not persisted: %v", err)
		}
		if user.PasswordHash == "str0ng-pass!" {
			t.Fatalf("password stored in plaintext")
		}
	})

	t.Run("rejects weak passwords", func(t *testing.T) {
		h, _, _ := newAuthTestStack(t)

		rec := registerUser(t, h, "bob", "bob@example.com", "short")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects duplicate username and email", func(t *testing.T) {
		h, _, _ := newAuthTestStack(t)

		if rec := registerUser(t, h, "carol", "carol@example.com", "str0ng-pass!"); rec.Code != http.StatusCreated {
			t.Fatalf("seed register failed: %d", rec.Code)
		}
		if rec := registerUser(t, h, "carol", "other@example.com", "str0ng-pass!"); rec.Code != http.StatusConflict {
			t.Fatalf("expected 409 for duplicate username, got %d", rec.Code)
		}
		if rec := registerUser(t, h, "other", "carol@example.com", "str0ng-pass!"); rec.Code != http.StatusConflict {
			t.Fatalf("expected 409 for duplicate email, got %d", rec.Code)
		}
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("returns a usable session token", func(t *testing.T) {
		h, auth, _ := newAuthTestStack(t)
		registerUser(t, h, "alice", "alice@example.com", "str0ng-pass!")

		rec := loginUser(t, h, "alice", "str0ng-pass!")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil || resp["token"] == "" {
			t.Fatalf("expected token in response: %s", rec.Body.String())
		}

		// The issued token passes the API guard.
		req := httptest.NewRequest(http.MethodGet, "/api/v1/interviews/dashboard", nil)
		req.Header.Set("Authorization", "Bearer "+resp["token"])
		guard := httptest.NewRecorder()
		auth.RequireAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})).ServeHTTP(guard, req)
		if guard.Code != http.StatusOK {
			t.Fatalf("issued token rejected by guard: %d", guard.Code)
		}

		// And the session cookie was set for page navigations.
		cookies := rec.Result().Cookies()
		found := false
		for _, c := range cookies {
			if c.Name == middleware.SessionCookie && c.Value != "" {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected session cookie to be set")
		}
	})

	t.Run("rejects wrong password and unknown user", func(t *testing.T) {
		h, _, _ := newAuthTestStack(t)
		registerUser(t, h, "alice", "alice@example.com", "str0ng-pass!")

		if rec := loginUser(t, h, "alice", "wrong-pass!"); rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for wrong password, got %d", rec.Code)
		}
		if rec := loginUser(t, h, "nobody", "str0ng-pass!"); rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for unknown user, got %d", rec.Code)
		}
	})
}

func TestLogoutHandlerRevokesSession(t *testing.T) {
	h, auth, _ := newAuthTestStack(t)
	registerUser(t, h, "alice", "alice@example.com", "str0ng-pass!")
	rec := loginUser(t, h, "alice", "str0ng-pass!")

	var resp map[string]string
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	token := resp["token"]

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	logout := httptest.NewRecorder()
	h.LogoutHandler(logout, req)

	if logout.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", logout.Code)
	}

	guardReq := httptest.NewRequest(http.MethodGet, "/api/v1/interviews/dashboard", nil)
	guardReq.Header.Set("Authorization", "Bearer "+token)
	guard := httptest.NewRecorder()
	auth.RequireAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("revoked token must not pass the guard")
	})).ServeHTTP(guard, guardReq)
	if guard.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", guard.Code)
	}
}

func TestUpdateProfileHandler(t *testing.T) {
	h, _, repo := newAuthTestStack(t)
	registerUser(t, h, "alice", "alice@example.com", "str0ng-pass!")
	user, _ := repo.GetUserByUsername("alice")

	b, _ := json.Marshal(models.ProfileUpdateRequest{DisplayName: "Alice A."})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/auth/profile", bytes.NewReader(b))
	req = req.WithContext(middleware.WithUserID(req.Context(), user.UserID))
	rec := httptest.NewRecorder()
	middleware.ValidateRequest[*models.ProfileUpdateRequest]()(http.HandlerFunc(h.UpdateProfileHandler)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated, _ := repo.GetUserByID(user.UserID)
	if updated.DisplayName != "Alice A." {
		t.Fatalf("display name not updated: %q", updated.DisplayName)
	}
}
