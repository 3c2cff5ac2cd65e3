package http

import (
	"encoding/json"
	"net/http"

	"github.com/nota10/academico/internal/academic"
)

// POST /students  { "ra": "...", "name": "...", "email": "", "program": "...", "password": "..." }
// Email is optional at creation; students bind one on first access.
func CreateStudentHandler(store academic.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			RA       string `json:"ra"`
			Name     string `json:"name"`
			Email    string `json:"email"`
			Program  string `json:"program"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.RA == "" || req.Name == "" || req.Program == "" || req.Password == "" {
			http.Error(w, "ra, name, program and password required", http.StatusBadRequest)
			return
		}
		st := academic.Student{RA: req.RA, Name: req.Name, Email: req.Email, Program: req.Program}
		if err := store.CreateStudent(r.Context(), st, req.Password); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"ra": academic.NormalizeRA(req.RA)})
	}
}

// POST /professors  { "email": "...", "name": "...", "primary_subject": "...", "password": "..." }
func CreateProfessorHandler(store academic.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email          string `json:"email"`
			Name           string `json:"name"`
			PrimarySubject string `json:"primary_subject"`
			Password       string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Email == "" || req.Name == "" || req.PrimarySubject == "" || req.Password == "" {
			http.Error(w, "email, name, primary_subject and password required", http.StatusBadRequest)
			return
		}
		p := academic.Professor{Email: req.Email, Name: req.Name, PrimarySubject: req.PrimarySubject}
		if err := store.CreateProfessor(r.Context(), p, req.Password); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"email": academic.NormalizeEmail(req.Email)})
	}
}
