package authapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"chirp/cmd/identity"
	"chirp/cmd/internal/auth/account"
	"chirp/cmd/internal/auth/token"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Compatibility message strings. Existing clients branch on these texts;
// treat them as frozen.
const (
	msgMissingDetails = "Missing Details"
	msgAccountExists  = "Account Already Exists"
	msgUserNotFound   = "User not found"
	msgInvalidCreds   = "Invalid credentials"
	msgSignupOK       = "Account created successfully"
	msgLoginOK        = "Login successful"
	msgInvalidBody    = "Invalid request body"
	msgSomethingWrong = "Something went wrong, please try again"
)

// Handler wires the account/auth HTTP endpoints.
type Handler struct {
	log *slog.Logger
	cfg Config

	accounts *account.Service
	tokens   token.Manager
	store    identity.Store

	// pool is optional and only used for the audit log; nil disables auditing.
	pool *pgxpool.Pool
}

// NewHandler constructs the auth Handler.
func NewHandler(log *slog.Logger, cfg Config, accounts *account.Service, tokens token.Manager, store identity.Store, pool *pgxpool.Pool) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if accounts == nil || tokens == nil || store == nil {
		return nil, errors.New("auth: nil dependency")
	}

	return &Handler{
		log:      log,
		cfg:      cfg,
		accounts: accounts,
		tokens:   tokens,
		store:    store,
		pool:     pool,
	}, nil
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/api/auth/signup", h.handleSignup)
	mux.HandleFunc("/api/auth/login", h.handleLogin)
	mux.HandleFunc("/api/auth/check", h.RequireAuth(h.handleCheckAuth))
	mux.HandleFunc("/api/auth/update-profile", h.RequireAuth(h.handleUpdateProfile))
}

// ---- handlers ----

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req signupRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	ctx := r.Context()
	ip := clientIP(r, h.cfg.TrustProxy)
	ua := strings.TrimSpace(r.UserAgent())

	res, err := h.accounts.Signup(ctx, account.SignupInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Bio:      req.Bio,
	})
	if err != nil {
		switch {
		case errors.Is(err, account.ErrMissingFields):
			writeFailure(w, http.StatusOK, msgMissingDetails)
		case errors.Is(err, account.ErrAccountExists):
			writeFailure(w, http.StatusOK, msgAccountExists)
		default:
			h.log.Error("auth.signup.fail", "err", err)
			writeFailure(w, http.StatusOK, msgSomethingWrong)
		}
		return
	}

	h.auditSignup(ctx, res.Account.ID, ip, ua)

	writeJSON(w, http.StatusOK, signupResponse{
		Success:  true,
		UserData: toUserData(res.Account),
		Token:    res.Token,
		Message:  msgSignupOK,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	ctx := r.Context()
	ip := clientIP(r, h.cfg.TrustProxy)
	ua := strings.TrimSpace(r.UserAgent())
	identifier := identity.NormalizeEmail(req.Email)

	res, err := h.accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrNotFound):
			h.auditLoginFailed(ctx, ip, ua, identifier, "not_found")
			writeFailure(w, http.StatusOK, msgUserNotFound)
		case errors.Is(err, account.ErrInvalidCredentials):
			h.auditLoginFailed(ctx, ip, ua, identifier, "bad_password")
			writeFailure(w, http.StatusOK, msgInvalidCreds)
		default:
			h.log.Error("auth.login.fail", "err", err)
			writeFailure(w, http.StatusOK, msgSomethingWrong)
		}
		return
	}

	h.auditLoginSuccess(ctx, res.Account.ID, ip, ua, identifier)

	writeJSON(w, http.StatusOK, loginResponse{
		Success:  true,
		Message:  msgLoginOK,
		Token:    res.Token,
		UserData: toUserData(res.Account),
	})
}

func (h *Handler) handleCheckAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	acc, ok := AccountFrom(r.Context())
	if !ok {
		// Only reachable if the gate was bypassed; treat as a wiring bug.
		h.log.Error("auth.check.no_identity_in_context")
		writeFailure(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	writeJSON(w, http.StatusOK, checkAuthResponse{Success: true, User: toUserData(acc)})
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	acc, ok := AccountFrom(r.Context())
	if !ok {
		h.log.Error("auth.update_profile.no_identity_in_context")
		writeFailure(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	ctx := r.Context()

	updated, err := h.accounts.UpdateProfile(ctx, acc.ID, account.UpdateProfileInput{
		ProfilePic: req.ProfilePic,
		Bio:        req.Bio,
		FullName:   req.FullName,
	})
	if err != nil {
		switch {
		case errors.Is(err, account.ErrNotFound):
			writeFailure(w, http.StatusNotFound, msgUserNotFound)
		default:
			h.log.Error("auth.update_profile.fail", "err", err, "account_id", acc.ID)
			writeFailure(w, http.StatusOK, msgSomethingWrong)
		}
		return
	}

	h.auditProfileUpdated(ctx, updated.ID, clientIP(r, h.cfg.TrustProxy), strings.TrimSpace(r.UserAgent()), req.ProfilePic != nil)

	writeJSON(w, http.StatusOK, updateProfileResponse{Success: true, User: toUserData(updated)})
}
