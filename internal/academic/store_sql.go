package academic

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/nota10/academico/internal/gradecalc"
)

// SQLStore implements Store over database/sql. PIM is stored once per
// student (students.pim) and joined into every grade read, so all of a
// student's records expose the same project grade by construction.
type SQLStore struct {
	db         *sql.DB
	driver     string // "sqlite" or "postgres"
	bcryptCost int
}

type Option func(*SQLStore)

// WithBcryptCost overrides the hashing cost (tests use bcrypt.MinCost).
func WithBcryptCost(c int) Option { return func(s *SQLStore) { s.bcryptCost = c } }

func NewSQLStore(db *sql.DB, driver string, opts ...Option) *SQLStore {
	s := &SQLStore{db: db, driver: driver, bcryptCost: 12}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *SQLStore) hashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *SQLStore) AuthenticateStudent(ctx context.Context, ra, password string) (Student, error) {
	ra = NormalizeRA(ra)
	var (
		st    Student
		email sql.NullString
		fa    int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT ra, name, email, password_hash, program, first_access FROM students WHERE ra=$1`, ra).
		Scan(&st.RA, &st.Name, &email, &st.PasswordHash, &st.Program, &fa)
	if errors.Is(err, sql.ErrNoRows) {
		return Student{}, ErrInvalidCredentials
	}
	if err != nil {
		return Student{}, err
	}
	if !checkPassword(password, st.PasswordHash) {
		return Student{}, ErrInvalidCredentials
	}
	st.Email = email.String
	st.FirstAccess = fa != 0
	return st, nil
}

func (s *SQLStore) AuthenticateProfessor(ctx context.Context, email, password string) (Professor, error) {
	email = NormalizeEmail(email)
	var p Professor
	err := s.db.QueryRowContext(ctx,
		`SELECT email, name, password_hash, primary_subject FROM professors WHERE email=$1`, email).
		Scan(&p.Email, &p.Name, &p.PasswordHash, &p.PrimarySubject)
	if errors.Is(err, sql.ErrNoRows) {
		return Professor{}, ErrInvalidCredentials
	}
	if err != nil {
		return Professor{}, err
	}
	if !checkPassword(password, p.PasswordHash) {
		return Professor{}, ErrInvalidCredentials
	}
	return p, nil
}

func (s *SQLStore) CreateStudent(ctx context.Context, st Student, password string) (err error) {
	st.RA = NormalizeRA(st.RA)
	st.Email = NormalizeEmail(st.Email)
	if st.RA == "" {
		return fmt.Errorf("ra must not be empty")
	}
	if st.Email != "" && !ValidEmail(st.Email) {
		return ErrInvalidEmail
	}
	hash, err := s.hashPassword(password)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM students WHERE ra=$1`, st.RA).Scan(&exists)
	if err == nil {
		return ErrDuplicate
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if st.Email != "" {
		err = tx.QueryRowContext(ctx, `SELECT 1 FROM students WHERE email=$1`, st.Email).Scan(&exists)
		if err == nil {
			return ErrDuplicate
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
	}

	email := sql.NullString{String: st.Email, Valid: st.Email != ""}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO students (ra, name, email, password_hash, program, first_access, pim) VALUES ($1,$2,$3,$4,$5,1,0)`,
		st.RA, st.Name, email, hash, st.Program)
	if err != nil {
		return err
	}
	// one zeroed grade row per subject, same tx as the account
	for _, subject := range Subjects {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO grades (ra, subject, np1, np2) VALUES ($1,$2,0,0)`, st.RA, subject)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLStore) CreateProfessor(ctx context.Context, p Professor, password string) error {
	p.Email = NormalizeEmail(p.Email)
	if !ValidEmail(p.Email) {
		return ErrInvalidEmail
	}
	if !ValidSubject(p.PrimarySubject) {
		return ErrUnknownSubject
	}
	hash, err := s.hashPassword(password)
	if err != nil {
		return err
	}

	var exists int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM professors WHERE email=$1`, p.Email).Scan(&exists)
	if err == nil {
		return ErrDuplicate
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO professors (email, name, password_hash, primary_subject) VALUES ($1,$2,$3,$4)`,
		p.Email, p.Name, hash, p.PrimarySubject)
	return err
}

func (s *SQLStore) GetStudent(ctx context.Context, ra string) (Student, error) {
	ra = NormalizeRA(ra)
	var (
		st    Student
		email sql.NullString
		fa    int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT ra, name, email, password_hash, program, first_access FROM students WHERE ra=$1`, ra).
		Scan(&st.RA, &st.Name, &email, &st.PasswordHash, &st.Program, &fa)
	if errors.Is(err, sql.ErrNoRows) {
		return Student{}, ErrNotFound
	}
	if err != nil {
		return Student{}, err
	}
	st.Email = email.String
	st.FirstAccess = fa != 0
	return st, nil
}

func (s *SQLStore) GetProfessor(ctx context.Context, email string) (Professor, error) {
	email = NormalizeEmail(email)
	var p Professor
	err := s.db.QueryRowContext(ctx,
		`SELECT email, name, password_hash, primary_subject FROM professors WHERE email=$1`, email).
		Scan(&p.Email, &p.Name, &p.PasswordHash, &p.PrimarySubject)
	if errors.Is(err, sql.ErrNoRows) {
		return Professor{}, ErrNotFound
	}
	if err != nil {
		return Professor{}, err
	}
	return p, nil
}

func (s *SQLStore) GetGrades(ctx context.Context, ra, subject string) (GradeRecord, error) {
	ra = NormalizeRA(ra)
	if !ValidSubject(subject) {
		return GradeRecord{}, ErrUnknownSubject
	}
	rec := GradeRecord{RA: ra, Subject: subject}
	err := s.db.QueryRowContext(ctx,
		`SELECT g.np1, g.np2, s.pim FROM grades g JOIN students s ON s.ra = g.ra WHERE g.ra=$1 AND g.subject=$2`,
		ra, subject).Scan(&rec.NP1, &rec.NP2, &rec.PIM)
	if errors.Is(err, sql.ErrNoRows) {
		// absent rows read as zeros
		return rec, nil
	}
	if err != nil {
		return GradeRecord{}, err
	}
	return rec, nil
}

func (s *SQLStore) ListGrades(ctx context.Context, ra string) ([]GradeRecord, error) {
	ra = NormalizeRA(ra)
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.subject, g.np1, g.np2, s.pim FROM grades g JOIN students s ON s.ra = g.ra WHERE g.ra=$1`,
		ra)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bySubject := make(map[string]GradeRecord, len(Subjects))
	for rows.Next() {
		rec := GradeRecord{RA: ra}
		if err := rows.Scan(&rec.Subject, &rec.NP1, &rec.NP2, &rec.PIM); err != nil {
			return nil, err
		}
		bySubject[rec.Subject] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// curriculum order, zeros for any subject missing a row
	out := make([]GradeRecord, 0, len(Subjects))
	for _, subject := range Subjects {
		rec, ok := bySubject[subject]
		if !ok {
			rec = GradeRecord{RA: ra, Subject: subject}
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *SQLStore) SetGrade(ctx context.Context, ra, subject string, field GradeField, value float64) error {
	ra = NormalizeRA(ra)
	if !ValidSubject(subject) {
		return ErrUnknownSubject
	}
	if value < gradecalc.ScoreMin || value > gradecalc.ScoreMax {
		return ErrScoreOutOfRange
	}

	if field == FieldPIM {
		// single student-level value, visible through every subject
		res, err := s.db.ExecContext(ctx, `UPDATE students SET pim=$1 WHERE ra=$2`, value, ra)
		if err != nil {
			return err
		}
		return requireRow(res)
	}

	var col string
	switch field {
	case FieldNP1:
		col = "np1"
	case FieldNP2:
		col = "np2"
	default:
		return ErrUnknownField
	}

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM students WHERE ra=$1`, ra).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO grades (ra, subject, `+col+`) VALUES ($1,$2,$3)
		 ON CONFLICT (ra, subject) DO UPDATE SET `+col+`=EXCLUDED.`+col,
		ra, subject, value)
	return err
}

func (s *SQLStore) UpdateFirstAccess(ctx context.Context, ra, email, newPassword string) error {
	ra = NormalizeRA(ra)
	email = NormalizeEmail(email)
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}
	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return err
	}

	var exists int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM students WHERE email=$1 AND ra<>$2`, email, ra).Scan(&exists)
	if err == nil {
		return ErrDuplicate
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE students SET email=$1, password_hash=$2, first_access=0 WHERE ra=$3`, email, hash, ra)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
