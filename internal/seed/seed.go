// Package seed generates the sample catalog used by the seed command.
package seed

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/djprofessorkash/pet-emporium-project/internal/auth"
	"github.com/djprofessorkash/pet-emporium-project/internal/model"
)

// Store is the repository surface the seeder needs.
type Store interface {
	TruncateAll(ctx context.Context) error
	CreateUser(ctx context.Context, user *model.User) error
	CreateDog(ctx context.Context, dog *model.Dog) error
	CreateAdoption(ctx context.Context, adoption *model.Adoption) error
}

// SampleUsers returns the three sample accounts, one of them an admin,
// with freshly hashed passwords.
func SampleUsers() ([]*model.User, error) {
	specs := []struct {
		username string
		password string
		isAdmin  bool
	}{
		{"friendly_neighborhood_user", "hunter2", false},
		{"into_the_userverse", "drowssap", false},
		{"amazing_administrator", "abcde12345", true},
	}

	users := make([]*model.User, 0, len(specs))
	for _, s := range specs {
		hash, err := auth.HashPassword(s.password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", s.username, err)
		}
		users = append(users, &model.User{
			Username:     s.username,
			PasswordHash: hash,
			IsAdmin:      s.isAdmin,
		})
	}
	return users, nil
}

// SampleDogs returns the eight sample dogs, three of them already adopted.
func SampleDogs() []*model.Dog {
	return []*model.Dog{
		{Name: "Odie", Breed: "Beagle", IsAdoptable: true},
		{Name: "Benji", Breed: "Basenji", IsAdoptable: true},
		{Name: "Fido", Breed: "Irish Wolfhound", IsAdoptable: true},
		{Name: "Rex", Breed: "Rottweiler", IsAdoptable: true},
		{Name: "Skipper", Breed: "Malamute", IsAdoptable: true},
		{Name: "Zoomer", Breed: "Viszla", IsAdoptable: false},
		{Name: "Borky", Breed: "Pomeranian", IsAdoptable: false},
		{Name: "Ghost", Breed: "Siberian Husky", IsAdoptable: false},
	}
}

// SampleAdoptions pairs every non-adoptable dog with a randomly chosen
// non-admin user.
func SampleAdoptions(users []*model.User, dogs []*model.Dog, rng *rand.Rand) []*model.Adoption {
	var regulars []*model.User
	for _, user := range users {
		if !user.IsAdmin {
			regulars = append(regulars, user)
		}
	}

	var adoptions []*model.Adoption
	if len(regulars) == 0 {
		return adoptions
	}

	for _, dog := range dogs {
		if dog.IsAdoptable {
			continue
		}
		adopter := regulars[rng.Intn(len(regulars))]
		adoptions = append(adoptions, &model.Adoption{
			DogID:  dog.ID,
			UserID: adopter.ID,
		})
	}
	return adoptions
}

// Run wipes all tables and populates the sample data.
func Run(ctx context.Context, store Store, rng *rand.Rand) error {
	if err := store.TruncateAll(ctx); err != nil {
		return fmt.Errorf("wipe tables: %w", err)
	}

	users, err := SampleUsers()
	if err != nil {
		return err
	}
	for _, user := range users {
		if err := store.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("seed user %s: %w", user.Username, err)
		}
	}

	dogs := SampleDogs()
	for _, dog := range dogs {
		if err := store.CreateDog(ctx, dog); err != nil {
			return fmt.Errorf("seed dog %s: %w", dog.Name, err)
		}
	}

	for _, adoption := range SampleAdoptions(users, dogs, rng) {
		if err := store.CreateAdoption(ctx, adoption); err != nil {
			return fmt.Errorf("seed adoption for dog %d: %w", adoption.DogID, err)
		}
	}

	return nil
}
