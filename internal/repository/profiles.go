package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightdesk/auth-gateway/internal/entity"
)

// ErrProfileNotFound is the distinguished not-found signal for profile
// lookups; login self-healing keys off it.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
)

// ProfilesRepository declares persistence operations for profile rows.
type ProfilesRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	Insert(ctx context.Context, id uuid.UUID, email, name, role string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	Stats(ctx context.Context) (entity.UserStats, error)
	Delete(ctx context.Context, id uuid.UUID) error
	TouchLastSeen(ctx context.Context, id uuid.UUID) error
}

// pgxPool is the subset of pgxpool.Pool the repository uses, extracted so
// tests can stub query execution.
type pgxPool interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
}

var _ pgxPool = (*pgxpool.Pool)(nil)

// PGXProfilesRepository implements ProfilesRepository with pgx.
type PGXProfilesRepository struct {
	pool pgxPool
}

// NewPGXProfilesRepository instantiates a profiles repository.
func NewPGXProfilesRepository(pool *pgxpool.Pool) *PGXProfilesRepository {
	return &PGXProfilesRepository{pool: pool}
}

const profileColumns = `id, email, name, role, created_at, last_seen_at`

// FindByID retrieves a profile row by the identity subject id.
func (r *PGXProfilesRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)

	var user entity.User
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.CreatedAt, &user.LastSeenAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("query profile by id: %w", err)
	}

	return &user, nil
}

// Insert creates a profile row keyed by the identity subject id.
func (r *PGXProfilesRepository) Insert(ctx context.Context, id uuid.UUID, email, name, role string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO profiles (id, email, name, role)
        VALUES ($1, $2, $3, $4)
        RETURNING `+profileColumns+`
    `, id, email, name, role)

	var user entity.User
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.CreatedAt, &user.LastSeenAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: %v", ErrProfileExists, pgErr)
		}
		return nil, fmt.Errorf("insert profile: %w", err)
	}

	return &user, nil
}

// List returns all profile rows ordered by creation date (desc).
func (r *PGXProfilesRepository) List(ctx context.Context) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var users []entity.User
	for rows.Next() {
		var user entity.User
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.CreatedAt, &user.LastSeenAt); err != nil {
			return nil, fmt.Errorf("scan profile row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return users, nil
}

// Stats aggregates the dashboard counters in a single query.
func (r *PGXProfilesRepository) Stats(ctx context.Context) (entity.UserStats, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE last_seen_at >= date_trunc('day', now())),
               COUNT(*) FILTER (WHERE created_at >= now() - interval '7 days')
        FROM profiles
    `)

	var stats entity.UserStats
	if err := row.Scan(&stats.TotalUsers, &stats.ActiveToday, &stats.NewThisWeek); err != nil {
		return entity.UserStats{}, fmt.Errorf("query profile stats: %w", err)
	}
	return stats, nil
}

// Delete removes a profile row by id.
func (r *PGXProfilesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// TouchLastSeen records sign-in activity for the active-today counter.
func (r *PGXProfilesRepository) TouchLastSeen(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `UPDATE profiles SET last_seen_at = now() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("touch last seen: %w", err)
	}
	return nil
}
