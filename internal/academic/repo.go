package academic

import (
	"context"
	"errors"
)

// Sentinel errors returned by Store implementations. Anything else coming
// out of a Store is a storage failure the caller cannot recover from.
var (
	ErrDuplicate          = errors.New("account already exists")
	ErrNotFound           = errors.New("account not found")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownSubject     = errors.New("unknown subject")
	ErrUnknownField       = errors.New("unknown grade field")
	ErrScoreOutOfRange    = errors.New("score outside [0, 10]")
)

type Store interface {
	// AuthenticateStudent and AuthenticateProfessor collapse unknown-user
	// and wrong-password into ErrInvalidCredentials so callers cannot
	// enumerate accounts.
	AuthenticateStudent(ctx context.Context, ra, password string) (Student, error)
	AuthenticateProfessor(ctx context.Context, email, password string) (Professor, error)

	// CreateStudent seeds one zeroed grade row per curriculum subject in
	// the same transaction as the account row.
	CreateStudent(ctx context.Context, s Student, password string) error
	CreateProfessor(ctx context.Context, p Professor, password string) error

	GetStudent(ctx context.Context, ra string) (Student, error)
	GetProfessor(ctx context.Context, email string) (Professor, error)

	// GetGrades returns a zeroed record when no row exists; it never
	// reports absence as an error.
	GetGrades(ctx context.Context, ra, subject string) (GradeRecord, error)
	ListGrades(ctx context.Context, ra string) ([]GradeRecord, error)

	SetGrade(ctx context.Context, ra, subject string, field GradeField, value float64) error

	// UpdateFirstAccess binds an email, rehashes the password and clears
	// the first-access flag in one write.
	UpdateFirstAccess(ctx context.Context, ra, email, newPassword string) error
}
