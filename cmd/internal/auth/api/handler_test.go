package authapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestMux(t *testing.T) (*http.ServeMux, *Handler) {
	t.Helper()

	h, _, _ := newTestHandler(t)
	mux := http.NewServeMux()
	h.Register(mux)
	return mux, h
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestSignupLoginFlow(t *testing.T) {
	mux, _ := newTestMux(t)

	// Signup.
	rec := doJSON(t, mux, http.MethodPost, "/api/auth/signup", map[string]string{
		"fullName": "Ada Lovelace",
		"email":    "Ada@Example.com",
		"password": "opensesame",
		"bio":      "first programmer",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var signup signupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signup))
	require.True(t, signup.Success)
	require.Equal(t, "Account created successfully", signup.Message)
	require.NotEmpty(t, signup.Token)
	require.NotEmpty(t, signup.UserData.ID)
	// The address is stored as sent (trimmed); only the lookup key is
	// case-folded.
	require.Equal(t, "Ada@Example.com", signup.UserData.Email)

	// The serialized identity must not carry any password material.
	require.NotContains(t, rec.Body.String(), "password")
	require.NotContains(t, rec.Body.String(), "argon2id")

	// Wrong password.
	rec = doJSON(t, mux, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "wrong",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fail failureResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fail))
	require.False(t, fail.Success)
	require.Equal(t, "Invalid credentials", fail.Message)

	// Unknown account.
	rec = doJSON(t, mux, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fail))
	require.False(t, fail.Success)
	require.Equal(t, "User not found", fail.Message)

	// Correct login. Email lookup is case/whitespace-insensitive.
	rec = doJSON(t, mux, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "  ADA@example.com ",
		"password": "opensesame",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var login loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.True(t, login.Success)
	require.Equal(t, "Login successful", login.Message)
	require.NotEmpty(t, login.Token)
	require.Equal(t, signup.UserData.ID, login.UserData.ID)
	require.NotContains(t, rec.Body.String(), "argon2id")

	// Token from login passes the gate.
	rec = doJSON(t, mux, http.MethodGet, "/api/auth/check", nil, map[string]string{
		TokenHeader: login.Token,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var check checkAuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &check))
	require.True(t, check.Success)
	require.Equal(t, signup.UserData.ID, check.User.ID)
	require.Equal(t, "Ada Lovelace", check.User.FullName)
}

func TestSignupDuplicateEmail(t *testing.T) {
	mux, _ := newTestMux(t)

	body := map[string]string{
		"fullName": "Ada Lovelace",
		"email":    "ada@example.com",
		"password": "opensesame",
		"bio":      "first programmer",
	}

	rec := doJSON(t, mux, http.MethodPost, "/api/auth/signup", body, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Same address with different case still collides.
	body["email"] = "ADA@example.com"
	rec = doJSON(t, mux, http.MethodPost, "/api/auth/signup", body, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var fail failureResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fail))
	require.False(t, fail.Success)
	require.Equal(t, "Account Already Exists", fail.Message)
}

func TestSignupMissingDetails(t *testing.T) {
	mux, _ := newTestMux(t)

	for name, body := range map[string]map[string]string{
		"no fullName": {"email": "a@b.c", "password": "x", "bio": "b"},
		"no email":    {"fullName": "A", "password": "x", "bio": "b"},
		"no password": {"fullName": "A", "email": "a@b.c", "bio": "b"},
		"no bio":      {"fullName": "A", "email": "a@b.c", "password": "x"},
		"blank email": {"fullName": "A", "email": "   ", "password": "x", "bio": "b"},
	} {
		rec := doJSON(t, mux, http.MethodPost, "/api/auth/signup", body, nil)
		require.Equal(t, http.StatusOK, rec.Code, name)

		var fail failureResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fail), name)
		require.False(t, fail.Success, name)
		require.Equal(t, "Missing Details", fail.Message, name)
	}
}

func TestSignupMalformedBody(t *testing.T) {
	mux, _ := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var fail failureResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fail))
	require.False(t, fail.Success)
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := newTestMux(t)

	for path, method := range map[string]string{
		"/api/auth/signup": http.MethodGet,
		"/api/auth/login":  http.MethodDelete,
	} {
		req := httptest.NewRequest(method, path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
	}
}

func TestUpdateProfile(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/auth/signup", map[string]string{
		"fullName": "Ada Lovelace",
		"email":    "ada@example.com",
		"password": "opensesame",
		"bio":      "first programmer",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var signup signupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signup))
	require.True(t, signup.Success)

	auth := map[string]string{TokenHeader: signup.Token}

	// Text-only update: image pipeline stays untouched, full name survives.
	rec = doJSON(t, mux, http.MethodPut, "/api/auth/update-profile", map[string]string{
		"bio": "analytical engine",
	}, auth)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated updateProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.True(t, updated.Success)
	require.Equal(t, "analytical engine", updated.User.Bio)
	require.Equal(t, "Ada Lovelace", updated.User.FullName)
	require.NotContains(t, rec.Body.String(), "argon2id")

	// Gate still enforced on the update route.
	rec = doJSON(t, mux, http.MethodPut, "/api/auth/update-profile", map[string]string{
		"bio": "nope",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var fail failureResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fail))
	require.Equal(t, "No token provided", fail.Message)

	// Check reflects the persisted update.
	rec = doJSON(t, mux, http.MethodGet, "/api/auth/check", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	var check checkAuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &check))
	require.Equal(t, "analytical engine", check.User.Bio)
}
