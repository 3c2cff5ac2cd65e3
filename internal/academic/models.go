// Package academic owns the persistent model of the grade system: student
// and professor accounts plus per-subject grade records for the fixed ADS
// curriculum.
package academic

import (
	"regexp"
	"strings"
)

// SubjectPIM is the project subject. Its grade (PIM) is a single
// student-level value surfaced on every subject's grade record.
const SubjectPIM = "PROJ INTEG MULTIDISCIPLINAR II"

// Subjects is the fixed curriculum. Grade rows are seeded from this list at
// student creation, so the store and the grade readers must agree on it.
var Subjects = []string{
	SubjectPIM,
	"ENGENHARIA DE SOFTWARE AGIL",
	"ALGORIT E ESTRUT DADOS PYTHON",
	"PROGRAMACAO ESTRUTURADA EM C",
	"ANALISE E PROJETO DE SISTEMAS",
}

// StudyTips maps each subject to a short revision hint shown alongside a
// non-approved standing.
var StudyTips = map[string]string{
	SubjectPIM:                      "Your project grade lifts the average of every subject. Revisit the scope, requirements and documentation before the final delivery.",
	"ENGENHARIA DE SOFTWARE AGIL":   "Review the agile principles (Scrum, Kanban), practice writing user stories and know the purpose of each ceremony.",
	"ALGORIT E ESTRUT DADOS PYTHON": "Drill lists, dictionaries and sets, and reason about time complexity while solving coding-platform problems.",
	"PROGRAMACAO ESTRUTURADA EM C":  "Go back over pointers, manual memory management (malloc/free) and structs; rewrite the basic memory exercises.",
	"ANALISE E PROJETO DE SISTEMAS": "Focus on UML class and use-case diagrams, requirements elicitation and data modelling across the project lifecycle.",
}

// ValidSubject reports whether name is part of the curriculum.
func ValidSubject(name string) bool {
	for _, s := range Subjects {
		if s == name {
			return true
		}
	}
	return false
}

// GradeField selects which score a write targets.
type GradeField string

const (
	FieldNP1 GradeField = "np1"
	FieldNP2 GradeField = "np2"
	FieldPIM GradeField = "pim"
)

// Student is an account keyed by registration number (RA).
type Student struct {
	RA           string `json:"ra"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	PasswordHash string `json:"-"`
	Program      string `json:"program"`
	FirstAccess  bool   `json:"first_access"`
}

// Professor is an account keyed by email, tied to the one subject it grades.
type Professor struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	PasswordHash   string `json:"-"`
	PrimarySubject string `json:"primary_subject"`
}

// GradeRecord is the score triple of one (student, subject) pair. PIM is
// the student-level project grade, identical across all of the student's
// records.
type GradeRecord struct {
	RA      string  `json:"ra"`
	Subject string  `json:"subject"`
	NP1     float64 `json:"np1"`
	NP2     float64 `json:"np2"`
	PIM     float64 `json:"pim"`
}

// NormalizeRA canonicalizes a registration number for lookups.
func NormalizeRA(ra string) string {
	return strings.ToUpper(strings.TrimSpace(ra))
}

// NormalizeEmail canonicalizes an email for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidEmail checks the simple local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}
