package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nota10/academico/internal/academic"
	authmw "github.com/nota10/academico/internal/auth/middleware"
)

// POST /auth/login  { "role": "student|professor", "credential": "...", "password": "..." }
// Students log in by RA, professors by email.
func LoginHandler(store academic.Store, a *authmw.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Role       string `json:"role"`
			Credential string `json:"credential"`
			Password   string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Credential == "" || req.Password == "" {
			http.Error(w, "credential and password required", http.StatusBadRequest)
			return
		}

		switch req.Role {
		case "student":
			st, err := store.AuthenticateStudent(r.Context(), req.Credential, req.Password)
			if err != nil {
				writeStoreError(w, err)
				return
			}
			tok, err := a.IssueJWT(st.RA, "student")
			if err != nil {
				http.Error(w, "issue token", http.StatusInternalServerError)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": tok,
				"role":         "student",
				"ra":           st.RA,
				"name":         st.Name,
				"program":      st.Program,
				"first_access": st.FirstAccess,
			})
		case "professor":
			p, err := store.AuthenticateProfessor(r.Context(), req.Credential, req.Password)
			if err != nil {
				writeStoreError(w, err)
				return
			}
			tok, err := a.IssueJWT(p.Email, "professor")
			if err != nil {
				http.Error(w, "issue token", http.StatusInternalServerError)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token":    tok,
				"role":            "professor",
				"email":           p.Email,
				"name":            p.Name,
				"primary_subject": p.PrimarySubject,
			})
		default:
			http.Error(w, "role must be student or professor", http.StatusBadRequest)
		}
	}
}

// POST /auth/first-access  { "email": "...", "new_password": "..." }
// Completes a student's first login: binds an email, replaces the
// provisional password and clears the first-access flag.
func FirstAccessHandler(store academic.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ra := authmw.SubjectFromContext(r.Context())
		if ra == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req struct {
			Email       string `json:"email"`
			NewPassword string `json:"new_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.NewPassword == "" {
			http.Error(w, "new password required", http.StatusBadRequest)
			return
		}
		if err := store.UpdateFirstAccess(r.Context(), ra, req.Email, req.NewPassword); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// writeStoreError maps store sentinels onto HTTP statuses. Unrecognized
// errors are storage failures and surface as 500s.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, academic.ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, academic.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, academic.ErrDuplicate):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, academic.ErrInvalidEmail),
		errors.Is(err, academic.ErrUnknownSubject),
		errors.Is(err, academic.ErrUnknownField),
		errors.Is(err, academic.ErrScoreOutOfRange):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
