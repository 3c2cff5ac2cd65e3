package academic_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/nota10/academico/internal/academic"
	"github.com/nota10/academico/internal/db"
)

func openTestStore(t *testing.T) (*academic.SQLStore, *sql.DB) {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dbh, err := db.Open(context.Background(), db.DriverSQLite, "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })
	return academic.NewSQLStore(dbh, "sqlite", academic.WithBcryptCost(bcrypt.MinCost)), dbh
}

func seedStudent(t *testing.T, st *academic.SQLStore, ra string) {
	t.Helper()
	err := st.CreateStudent(context.Background(), academic.Student{
		RA:      ra,
		Name:    "Ana Souza",
		Program: "ADS",
	}, "senha-inicial")
	if err != nil {
		t.Fatalf("create student: %v", err)
	}
}

func TestCreateStudentSeedsGradeRows(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()
	seedStudent(t, st, "r123456")

	s, err := st.GetStudent(ctx, "R123456")
	if err != nil {
		t.Fatalf("get student: %v", err)
	}
	if s.RA != "R123456" {
		t.Errorf("RA not upper-cased: %q", s.RA)
	}
	if !s.FirstAccess {
		t.Error("new student should carry the first-access flag")
	}

	recs, err := st.ListGrades(ctx, "R123456")
	if err != nil {
		t.Fatalf("list grades: %v", err)
	}
	if len(recs) != len(academic.Subjects) {
		t.Fatalf("want %d grade records, got %d", len(academic.Subjects), len(recs))
	}
	for i, rec := range recs {
		if rec.Subject != academic.Subjects[i] {
			t.Errorf("record %d: want subject %q, got %q", i, academic.Subjects[i], rec.Subject)
		}
		if rec.NP1 != 0 || rec.NP2 != 0 || rec.PIM != 0 {
			t.Errorf("record %q not zeroed: %+v", rec.Subject, rec)
		}
	}
}

func TestCreateStudentDuplicate(t *testing.T) {
	st, _ := openTestStore(t)
	seedStudent(t, st, "R100")

	err := st.CreateStudent(context.Background(), academic.Student{RA: "r100", Name: "X", Program: "ADS"}, "pw")
	if !errors.Is(err, academic.ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
}

func TestAuthenticateStudent(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()
	seedStudent(t, st, "R200")

	s, err := st.AuthenticateStudent(ctx, "r200", "senha-inicial")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if s.RA != "R200" {
		t.Errorf("unexpected RA %q", s.RA)
	}

	if _, err := st.AuthenticateStudent(ctx, "R200", "wrong"); !errors.Is(err, academic.ErrInvalidCredentials) {
		t.Errorf("wrong password: want ErrInvalidCredentials, got %v", err)
	}
	// unknown user is indistinguishable from a bad password
	if _, err := st.AuthenticateStudent(ctx, "R999", "senha-inicial"); !errors.Is(err, academic.ErrInvalidCredentials) {
		t.Errorf("unknown user: want ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateProfessor(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()
	err := st.CreateProfessor(ctx, academic.Professor{
		Email:          "Carlos@Uni.Edu",
		Name:           "Carlos Lima",
		PrimarySubject: academic.SubjectPIM,
	}, "segredo")
	if err != nil {
		t.Fatalf("create professor: %v", err)
	}

	p, err := st.AuthenticateProfessor(ctx, "carlos@uni.edu", "segredo")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if p.Email != "carlos@uni.edu" {
		t.Errorf("email not lower-cased: %q", p.Email)
	}
	if p.PrimarySubject != academic.SubjectPIM {
		t.Errorf("unexpected subject %q", p.PrimarySubject)
	}

	if _, err := st.AuthenticateProfessor(ctx, "carlos@uni.edu", "nope"); !errors.Is(err, academic.ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestCreateProfessorValidation(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()

	err := st.CreateProfessor(ctx, academic.Professor{Email: "not-an-email", Name: "X", PrimarySubject: academic.SubjectPIM}, "pw")
	if !errors.Is(err, academic.ErrInvalidEmail) {
		t.Errorf("want ErrInvalidEmail, got %v", err)
	}
	err = st.CreateProfessor(ctx, academic.Professor{Email: "a@b.co", Name: "X", PrimarySubject: "BASKET WEAVING"}, "pw")
	if !errors.Is(err, academic.ErrUnknownSubject) {
		t.Errorf("want ErrUnknownSubject, got %v", err)
	}
}

func TestPIMSharedAcrossSubjects(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()
	seedStudent(t, st, "R300")

	// pre-existing periodic scores must survive the PIM write
	if err := st.SetGrade(ctx, "R300", academic.Subjects[1], academic.FieldNP1, 6.5); err != nil {
		t.Fatalf("set np1: %v", err)
	}

	if err := st.SetGrade(ctx, "R300", academic.SubjectPIM, academic.FieldPIM, 9.0); err != nil {
		t.Fatalf("set pim: %v", err)
	}

	for _, subject := range academic.Subjects {
		rec, err := st.GetGrades(ctx, "R300", subject)
		if err != nil {
			t.Fatalf("get grades %q: %v", subject, err)
		}
		if rec.PIM != 9.0 {
			t.Errorf("%q: want PIM 9.0, got %v", subject, rec.PIM)
		}
	}
	rec, err := st.GetGrades(ctx, "R300", academic.Subjects[1])
	if err != nil {
		t.Fatal(err)
	}
	if rec.NP1 != 6.5 || rec.NP2 != 0 {
		t.Errorf("PIM write touched periodic scores: %+v", rec)
	}
}

func TestSetGradeIdempotent(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()
	seedStudent(t, st, "R400")
	subject := academic.Subjects[2]

	if err := st.SetGrade(ctx, "R400", subject, academic.FieldNP2, 7.25); err != nil {
		t.Fatal(err)
	}
	first, err := st.GetGrades(ctx, "R400", subject)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.SetGrade(ctx, "R400", subject, academic.FieldNP2, 7.25); err != nil {
		t.Fatal(err)
	}
	second, err := st.GetGrades(ctx, "R400", subject)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("second identical write changed the record: %+v vs %+v", first, second)
	}
}

func TestSetGradeValidation(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()
	seedStudent(t, st, "R500")
	subject := academic.Subjects[1]

	if err := st.SetGrade(ctx, "R500", "BASKET WEAVING", academic.FieldNP1, 5); !errors.Is(err, academic.ErrUnknownSubject) {
		t.Errorf("want ErrUnknownSubject, got %v", err)
	}
	if err := st.SetGrade(ctx, "R500", subject, academic.FieldNP1, 10.5); !errors.Is(err, academic.ErrScoreOutOfRange) {
		t.Errorf("want ErrScoreOutOfRange, got %v", err)
	}
	if err := st.SetGrade(ctx, "R500", subject, academic.GradeField("final"), 5); !errors.Is(err, academic.ErrUnknownField) {
		t.Errorf("want ErrUnknownField, got %v", err)
	}
	if err := st.SetGrade(ctx, "R999", subject, academic.FieldNP1, 5); !errors.Is(err, academic.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
	if err := st.SetGrade(ctx, "R999", academic.SubjectPIM, academic.FieldPIM, 5); !errors.Is(err, academic.ErrNotFound) {
		t.Errorf("pim write for unknown student: want ErrNotFound, got %v", err)
	}
}

func TestGetGradesZeroWhenRowAbsent(t *testing.T) {
	st, dbh := openTestStore(t)
	ctx := context.Background()
	seedStudent(t, st, "R600")
	subject := academic.Subjects[3]

	if _, err := dbh.Exec(`DELETE FROM grades WHERE ra='R600' AND subject=$1`, subject); err != nil {
		t.Fatal(err)
	}
	rec, err := st.GetGrades(ctx, "R600", subject)
	if err != nil {
		t.Fatalf("get grades: %v", err)
	}
	if rec.NP1 != 0 || rec.NP2 != 0 || rec.PIM != 0 {
		t.Errorf("absent row should read as zeros, got %+v", rec)
	}
}

func TestUpdateFirstAccess(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()
	seedStudent(t, st, "R700")

	if err := st.UpdateFirstAccess(ctx, "R700", "ana@uni.edu", "nova-senha"); err != nil {
		t.Fatalf("update first access: %v", err)
	}
	s, err := st.AuthenticateStudent(ctx, "R700", "nova-senha")
	if err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if s.FirstAccess {
		t.Error("first-access flag should be cleared")
	}
	if s.Email != "ana@uni.edu" {
		t.Errorf("email not bound: %q", s.Email)
	}
	if _, err := st.AuthenticateStudent(ctx, "R700", "senha-inicial"); !errors.Is(err, academic.ErrInvalidCredentials) {
		t.Error("old password should no longer work")
	}
}

func TestUpdateFirstAccessErrors(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()
	seedStudent(t, st, "R800")
	seedStudent(t, st, "R801")

	if err := st.UpdateFirstAccess(ctx, "R800", "not-an-email", "pw"); !errors.Is(err, academic.ErrInvalidEmail) {
		t.Errorf("want ErrInvalidEmail, got %v", err)
	}
	if err := st.UpdateFirstAccess(ctx, "R999", "a@b.co", "pw"); !errors.Is(err, academic.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}

	if err := st.UpdateFirstAccess(ctx, "R800", "taken@uni.edu", "pw"); err != nil {
		t.Fatal(err)
	}
	if err := st.UpdateFirstAccess(ctx, "R801", "taken@uni.edu", "pw"); !errors.Is(err, academic.ErrDuplicate) {
		t.Errorf("email collision: want ErrDuplicate, got %v", err)
	}
}
