package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/djprofessorkash/pet-emporium-project/internal/model"
	"github.com/djprofessorkash/pet-emporium-project/internal/repository"
	"github.com/djprofessorkash/pet-emporium-project/internal/testutil"
)

// newTestRepository connects to the database named by TEST_DATABASE_URL,
// serializes against other DB tests, and resets the schema. Skips when
// the variable is unset.
func newTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	databaseURL := testutil.RequireEnv(t, "TEST_DATABASE_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("connect to database: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		if err := unlock(); err != nil {
			t.Errorf("release db lock: %v", err)
		}
	})

	if err := testutil.ResetSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return repo
}

func TestCreateUser(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, testutil.UniqueUsername("alice"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected the database to assign an ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("expected the database to assign created_at")
	}

	loaded, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if loaded.Username != user.Username {
		t.Errorf("expected username %q, got %q", user.Username, loaded.Username)
	}
	if loaded.IsAdmin {
		t.Error("fresh users must not be administrators")
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, "taken")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	dup := testutil.NewTestUser(t, "taken")
	err := repo.CreateUser(ctx, dup)
	if !errors.Is(err, repository.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestGetUserByUsername_ExactMatch(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, "administrator_prime")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	loaded, err := repo.GetUserByUsername(ctx, "administrator_prime")
	if err != nil {
		t.Fatalf("get user by username: %v", err)
	}
	if loaded.ID != user.ID {
		t.Errorf("expected user %d, got %d", user.ID, loaded.ID)
	}

	// A prefix of an existing username must not match
	if _, err := repo.GetUserByUsername(ctx, "administrator"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for partial username, got %v", err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, err := repo.GetUserByID(ctx, 9999); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDogLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	dog := testutil.NewTestDog(t, "Odie", "Beagle")
	if err := repo.CreateDog(ctx, dog); err != nil {
		t.Fatalf("create dog: %v", err)
	}
	if dog.ID == 0 {
		t.Fatal("expected the database to assign an ID")
	}

	// Update
	dog.Name = "Odysseus"
	dog.IsAdoptable = false
	if err := repo.UpdateDog(ctx, dog); err != nil {
		t.Fatalf("update dog: %v", err)
	}

	loaded, err := repo.GetDogByID(ctx, dog.ID)
	if err != nil {
		t.Fatalf("get dog: %v", err)
	}
	if loaded.Name != "Odysseus" || loaded.IsAdoptable {
		t.Errorf("update not persisted: %+v", loaded)
	}

	// Delete
	if err := repo.DeleteDog(ctx, dog.ID); err != nil {
		t.Fatalf("delete dog: %v", err)
	}
	if _, err := repo.GetDogByID(ctx, dog.ID); !errors.Is(err, repository.ErrDogNotFound) {
		t.Fatalf("expected ErrDogNotFound after delete, got %v", err)
	}
}

func TestUpdateDog_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	ghost := &model.Dog{ID: 424242, Name: "Ghost", Breed: "None"}
	if err := repo.UpdateDog(context.Background(), ghost); !errors.Is(err, repository.ErrDogNotFound) {
		t.Fatalf("expected ErrDogNotFound, got %v", err)
	}
}

func TestListDogs_OrderedByID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	names := []string{"Rex", "Benji", "Skipper"}
	for _, name := range names {
		if err := repo.CreateDog(ctx, testutil.NewTestDog(t, name, "Mixed")); err != nil {
			t.Fatalf("create dog: %v", err)
		}
	}

	dogs, err := repo.ListDogs(ctx)
	if err != nil {
		t.Fatalf("list dogs: %v", err)
	}
	if len(dogs) != len(names) {
		t.Fatalf("expected %d dogs, got %d", len(names), len(dogs))
	}
	for i, dog := range dogs {
		if dog.Name != names[i] {
			t.Errorf("position %d: expected %q, got %q", i, names[i], dog.Name)
		}
		if i > 0 && dogs[i-1].ID >= dog.ID {
			t.Errorf("dogs not ordered by ID: %d then %d", dogs[i-1].ID, dog.ID)
		}
	}
}

func TestAdoptions(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, testutil.UniqueUsername("adopter"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	dog := testutil.NewTestDog(t, "Borky", "Pomeranian")
	if err := repo.CreateDog(ctx, dog); err != nil {
		t.Fatalf("create dog: %v", err)
	}

	adoption := &model.Adoption{DogID: dog.ID, UserID: user.ID}
	if err := repo.CreateAdoption(ctx, adoption); err != nil {
		t.Fatalf("create adoption: %v", err)
	}
	if adoption.ID == 0 {
		t.Error("expected the database to assign an ID")
	}

	adopted, err := repo.ListDogsAdoptedByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list adopted dogs: %v", err)
	}
	if len(adopted) != 1 || adopted[0].ID != dog.ID {
		t.Errorf("unexpected adopted dogs: %+v", adopted)
	}

	adopters, err := repo.ListUsersWhoAdoptedDog(ctx, dog.ID)
	if err != nil {
		t.Fatalf("list adopters: %v", err)
	}
	if len(adopters) != 1 || adopters[0].ID != user.ID {
		t.Errorf("unexpected adopters: %+v", adopters)
	}
}

func TestDeleteDog_CascadesAdoptions(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, testutil.UniqueUsername("adopter"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	dog := testutil.NewTestDog(t, "Fido", "Irish Wolfhound")
	if err := repo.CreateDog(ctx, dog); err != nil {
		t.Fatalf("create dog: %v", err)
	}
	if err := repo.CreateAdoption(ctx, &model.Adoption{DogID: dog.ID, UserID: user.ID}); err != nil {
		t.Fatalf("create adoption: %v", err)
	}

	if err := repo.DeleteDog(ctx, dog.ID); err != nil {
		t.Fatalf("delete dog: %v", err)
	}

	adoptions, err := repo.ListAdoptionsByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list adoptions: %v", err)
	}
	if len(adoptions) != 0 {
		t.Errorf("expected adoptions to cascade on dog delete, got %d", len(adoptions))
	}
}

func TestTruncateAll(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, testutil.UniqueUsername("gone"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := repo.CreateDog(ctx, testutil.NewTestDog(t, "Gone", "Mixed")); err != nil {
		t.Fatalf("create dog: %v", err)
	}

	if err := repo.TruncateAll(ctx); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	dogs, err := repo.ListDogs(ctx)
	if err != nil {
		t.Fatalf("list dogs: %v", err)
	}
	if len(users) != 0 || len(dogs) != 0 {
		t.Errorf("expected empty tables, got %d users, %d dogs", len(users), len(dogs))
	}
}
