package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nota10/academico/internal/academic"
	authmw "github.com/nota10/academico/internal/auth/middleware"
)

// GET /subjects
func SubjectsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"subjects":        academic.Subjects,
			"project_subject": academic.SubjectPIM,
		})
	}
}

// GET /grades — the logged-in student's full report card.
func MyGradesHandler(store academic.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ra := authmw.SubjectFromContext(r.Context())
		if ra == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		recs, err := store.ListGrades(r.Context(), ra)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		out := make([]subjectReport, 0, len(recs))
		for _, rec := range recs {
			out = append(out, buildReport(rec))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ra": academic.NormalizeRA(ra), "subjects": out})
	}
}

// GET /students/{ra}/grades/{subject} — professor view of one record.
func GetGradesHandler(store academic.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ra := chi.URLParam(r, "ra")
		subject := chi.URLParam(r, "subject")
		if _, err := store.GetStudent(r.Context(), ra); err != nil {
			writeStoreError(w, err)
			return
		}
		rec, err := store.GetGrades(r.Context(), ra, subject)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(buildReport(rec))
	}
}

// PUT /students/{ra}/grades/{subject}  { "field": "np1|np2|pim", "value": 7.5 }
// A professor may only write the subject they teach; the project grade is
// written through the project subject and lands on the student record.
func SetGradeHandler(store academic.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ra := chi.URLParam(r, "ra")
		subject := chi.URLParam(r, "subject")

		profEmail := authmw.SubjectFromContext(r.Context())
		prof, err := store.GetProfessor(r.Context(), profEmail)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if prof.PrimarySubject != subject {
			http.Error(w, "subject not taught by this professor", http.StatusForbidden)
			return
		}

		var req struct {
			Field academic.GradeField `json:"field"`
			Value float64             `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Field == academic.FieldPIM && subject != academic.SubjectPIM {
			http.Error(w, "PIM is written through the project subject", http.StatusUnprocessableEntity)
			return
		}
		if err := store.SetGrade(r.Context(), ra, subject, req.Field, req.Value); err != nil {
			writeStoreError(w, err)
			return
		}
		rec, err := store.GetGrades(r.Context(), ra, subject)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(buildReport(rec))
	}
}
