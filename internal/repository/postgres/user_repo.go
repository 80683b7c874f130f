package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventgraph/internal/domain"
)

const userColumns = `id, email, name, password_hash, salt, created_events, created_at`

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (email, name, password_hash, salt, created_events, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	createdEvents := u.CreatedEvents
	if createdEvents == nil {
		createdEvents = []string{}
	}
	err := conn(ctx, r.DB).QueryRowContext(ctx, query, u.Email, u.Name, u.Password, u.Salt, pq.Array(createdEvents), u.CreatedAt).Scan(&u.ID)
	if isPQCode(err, pqUniqueViolation) {
		return domain.ErrDuplicateEmail
	}
	return err
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id`
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]*domain.User, 0)
	for rows.Next() {
		u := &domain.User{}
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Password, &u.Salt, pq.Array(&u.CreatedEvents), &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !isUUID(id) {
		return nil, domain.ErrUserNotFound
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	err := conn(ctx, r.DB).QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.Name, &u.Password, &u.Salt, pq.Array(&u.CreatedEvents), &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if u.CreatedEvents == nil {
		u.CreatedEvents = []string{}
	}
	return u, nil
}

func (r *userRepository) AppendCreatedEvent(ctx context.Context, userID, eventID string) error {
	if !isUUID(userID) {
		return domain.ErrUserNotFound
	}
	query := `
		UPDATE users SET created_events = array_append(created_events, $1)
		WHERE id = $2
	`
	result, err := conn(ctx, r.DB).ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
