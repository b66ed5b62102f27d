package repository

import (
	"context"
	"fmt"

	"github.com/djprofessorkash/pet-emporium-project/internal/model"
)

// CreateAdoption records a new association between a dog and a user.
func (r *Repository) CreateAdoption(ctx context.Context, adoption *model.Adoption) error {
	query := `
		INSERT INTO adoptions (dog_id, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		adoption.DogID,
		adoption.UserID,
	).Scan(&adoption.ID, &adoption.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create adoption: %w", err)
	}

	return nil
}

// ListAdoptionsByUser returns a user's adoption records, oldest first.
func (r *Repository) ListAdoptionsByUser(ctx context.Context, userID int64) ([]*model.Adoption, error) {
	return r.listAdoptions(ctx, `
		SELECT id, dog_id, user_id, created_at
		FROM adoptions
		WHERE user_id = $1
		ORDER BY id
	`, userID)
}

// ListAdoptionsByDog returns a dog's adoption records, oldest first.
func (r *Repository) ListAdoptionsByDog(ctx context.Context, dogID int64) ([]*model.Adoption, error) {
	return r.listAdoptions(ctx, `
		SELECT id, dog_id, user_id, created_at
		FROM adoptions
		WHERE dog_id = $1
		ORDER BY id
	`, dogID)
}

func (r *Repository) listAdoptions(ctx context.Context, query string, arg any) ([]*model.Adoption, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list adoptions: %w", err)
	}
	defer rows.Close()

	var adoptions []*model.Adoption
	for rows.Next() {
		var adoption model.Adoption
		if err := rows.Scan(
			&adoption.ID,
			&adoption.DogID,
			&adoption.UserID,
			&adoption.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan adoption: %w", err)
		}
		adoptions = append(adoptions, &adoption)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate adoptions: %w", err)
	}

	return adoptions, nil
}

// TruncateAll wipes all three tables. Used by the seed utility.
func (r *Repository) TruncateAll(ctx context.Context) error {
	// Adoptions first to respect foreign keys.
	for _, table := range []string{"adoptions", "dogs", "users"} {
		if _, err := r.pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to wipe %s: %w", table, err)
		}
	}
	return nil
}
