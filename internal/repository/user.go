package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/djprofessorkash/pet-emporium-project/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
)

// CreateUser inserts a new user and fills in its server-generated ID
// and creation timestamp.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (username, password_hash, is_admin)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		user.Username,
		user.PasswordHash,
		user.IsAdmin,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, username, password_hash, is_admin, created_at
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

// GetUserByUsername retrieves a user by exact username match.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		SELECT id, username, password_hash, is_admin, created_at
		FROM users
		WHERE username = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &user, nil
}

// ListUsers returns all users ordered by ID.
func (r *Repository) ListUsers(ctx context.Context) ([]*model.User, error) {
	query := `
		SELECT id, username, password_hash, is_admin, created_at
		FROM users
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.PasswordHash,
			&user.IsAdmin,
			&user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// ListDogsAdoptedByUser returns the dogs associated with a user through
// its adoption records.
func (r *Repository) ListDogsAdoptedByUser(ctx context.Context, userID int64) ([]*model.Dog, error) {
	query := `
		SELECT d.id, d.name, d.breed, d.is_adoptable, d.created_at
		FROM dogs d
		JOIN adoptions a ON a.dog_id = d.id
		WHERE a.user_id = $1
		ORDER BY a.id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list adopted dogs: %w", err)
	}
	defer rows.Close()

	var dogs []*model.Dog
	for rows.Next() {
		var dog model.Dog
		if err := rows.Scan(
			&dog.ID,
			&dog.Name,
			&dog.Breed,
			&dog.IsAdoptable,
			&dog.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan dog: %w", err)
		}
		dogs = append(dogs, &dog)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate adopted dogs: %w", err)
	}

	return dogs, nil
}
