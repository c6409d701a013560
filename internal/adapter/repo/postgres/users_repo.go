package postgres

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
)

var tracer = otel.Tracer("repo/postgres")

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint conflicts.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// UserRepo implements domain.UserRepository.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepo creates a UserRepo backed by the given pool.
func NewUserRepo(pool *pgxpool.Pool) *UserRepo { return &UserRepo{pool: pool} }

// Create inserts a recruiter account. A duplicate email maps to ErrConflict.
func (r *UserRepo) Create(ctx domain.Context, u domain.User) (string, error) {
	ctx, span := tracer.Start(ctx, "users.create")
	defer span.End()

	id := uuid.New().String()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, full_name, company_name)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, u.Email, u.PasswordHash, u.FullName, u.CompanyName)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("op=users.Create: %w: email already registered", domain.ErrConflict)
		}
		return "", fmt.Errorf("op=users.Create: %w", err)
	}
	return id, nil
}

// FindByEmail returns the user with the given email.
func (r *UserRepo) FindByEmail(ctx domain.Context, email string) (domain.User, error) {
	ctx, span := tracer.Start(ctx, "users.find_by_email")
	defer span.End()

	var u domain.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, full_name, company_name, created_at
		 FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.CompanyName, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, fmt.Errorf("op=users.FindByEmail: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("op=users.FindByEmail: %w", err)
	}
	return u, nil
}

// Get returns the user by ID.
func (r *UserRepo) Get(ctx domain.Context, id string) (domain.User, error) {
	ctx, span := tracer.Start(ctx, "users.get")
	defer span.End()

	var u domain.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, full_name, company_name, created_at
		 FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.CompanyName, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, fmt.Errorf("op=users.Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("op=users.Get: %w", err)
	}
	return u, nil
}
