package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/djprofessorkash/pet-emporium-project/internal/model"
)

// ErrDogNotFound is returned when no dog matches the given ID.
var ErrDogNotFound = errors.New("dog not found")

// CreateDog inserts a new dog and fills in its server-generated ID and
// creation timestamp.
func (r *Repository) CreateDog(ctx context.Context, dog *model.Dog) error {
	query := `
		INSERT INTO dogs (name, breed, is_adoptable)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		dog.Name,
		dog.Breed,
		dog.IsAdoptable,
	).Scan(&dog.ID, &dog.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create dog: %w", err)
	}

	return nil
}

// GetDogByID retrieves a dog by its ID.
func (r *Repository) GetDogByID(ctx context.Context, id int64) (*model.Dog, error) {
	query := `
		SELECT id, name, breed, is_adoptable, created_at
		FROM dogs
		WHERE id = $1
	`

	var dog model.Dog
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&dog.ID,
		&dog.Name,
		&dog.Breed,
		&dog.IsAdoptable,
		&dog.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDogNotFound
		}
		return nil, fmt.Errorf("failed to get dog by ID: %w", err)
	}

	return &dog, nil
}

// ListDogs returns all dogs ordered by ID.
func (r *Repository) ListDogs(ctx context.Context) ([]*model.Dog, error) {
	query := `
		SELECT id, name, breed, is_adoptable, created_at
		FROM dogs
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list dogs: %w", err)
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
		return nil, fmt.Errorf("failed to iterate dogs: %w", err)
	}

	return dogs, nil
}

// UpdateDog persists the current state of an already-loaded dog.
func (r *Repository) UpdateDog(ctx context.Context, dog *model.Dog) error {
	query := `
		UPDATE dogs
		SET name = $2, breed = $3, is_adoptable = $4
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		dog.ID,
		dog.Name,
		dog.Breed,
		dog.IsAdoptable,
	)
	if err != nil {
		return fmt.Errorf("failed to update dog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDogNotFound
	}

	return nil
}

// DeleteDog removes a dog by ID.
func (r *Repository) DeleteDog(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM dogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDogNotFound
	}

	return nil
}

// ListUsersWhoAdoptedDog returns the users associated with a dog through
// its adoption records.
func (r *Repository) ListUsersWhoAdoptedDog(ctx context.Context, dogID int64) ([]*model.User, error) {
	query := `
		SELECT u.id, u.username, u.password_hash, u.is_admin, u.created_at
		FROM users u
		JOIN adoptions a ON a.user_id = u.id
		WHERE a.dog_id = $1
		ORDER BY a.id
	`

	rows, err := r.pool.Query(ctx, query, dogID)
	if err != nil {
		return nil, fmt.Errorf("failed to list adopters: %w", err)
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
		return nil, fmt.Errorf("failed to iterate adopters: %w", err)
	}

	return users, nil
}
