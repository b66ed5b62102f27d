package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/djprofessorkash/pet-emporium-project/internal/handler/dto"
	"github.com/djprofessorkash/pet-emporium-project/internal/model"
	"github.com/djprofessorkash/pet-emporium-project/internal/repository"
)

// DogStore defines the dog persistence operations the handlers need.
type DogStore interface {
	CreateDog(ctx context.Context, dog *model.Dog) error
	GetDogByID(ctx context.Context, id int64) (*model.Dog, error)
	ListDogs(ctx context.Context) ([]*model.Dog, error)
	UpdateDog(ctx context.Context, dog *model.Dog) error
	DeleteDog(ctx context.Context, id int64) error
}

// updatableDogFields is the PATCH allow-list. Anything else is rejected
// rather than assigned onto the record.
var updatableDogFields = map[string]bool{
	"name":         true,
	"breed":        true,
	"is_adoptable": true,
}

// DogHandler handles HTTP requests for the dog catalog.
type DogHandler struct {
	dogs   DogStore
	logger *slog.Logger
}

// NewDogHandler creates a new DogHandler.
func NewDogHandler(dogs DogStore, logger *slog.Logger) *DogHandler {
	return &DogHandler{
		dogs:   dogs,
		logger: logger,
	}
}

// List handles GET /api/dogs.
func (h *DogHandler) List(w http.ResponseWriter, r *http.Request) {
	dogs, err := h.dogs.ListDogs(r.Context())
	if err != nil {
		h.handleStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToDogResponses(dogs))
}

// ListAdoptable handles GET /api/adopt. The adoptability filter runs
// in-process over the full list.
func (h *DogHandler) ListAdoptable(w http.ResponseWriter, r *http.Request) {
	dogs, err := h.dogs.ListDogs(r.Context())
	if err != nil {
		h.handleStoreError(w, err)
		return
	}

	adoptable := make([]*model.Dog, 0, len(dogs))
	for _, dog := range dogs {
		if dog.IsAdoptable {
			adoptable = append(adoptable, dog)
		}
	}

	writeJSON(w, http.StatusOK, dto.ToDogResponses(adoptable))
}

// Get handles GET /api/dogs/{id}.
func (h *DogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := dogIDParam(w, r)
	if !ok {
		return
	}

	dog, err := h.dogs.GetDogByID(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, err, id)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToDogResponse(dog))
}

// Create handles POST /api/dogs. Admin only; new dogs always start
// adoptable.
func (h *DogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if req.Name == "" || req.Breed == "" {
		writeError(w, http.StatusBadRequest, "Fields `name` and `breed` are required.")
		return
	}

	dog := &model.Dog{
		Name:        req.Name,
		Breed:       req.Breed,
		IsAdoptable: true,
	}

	if err := h.dogs.CreateDog(r.Context(), dog); err != nil {
		h.handleStoreError(w, err)
		return
	}

	h.logger.Info("dog created",
		"dog_id", dog.ID,
		"name", dog.Name,
		"breed", dog.Breed,
	)

	writeJSON(w, http.StatusCreated, dto.ToDogResponse(dog))
}

// Update handles PATCH /api/dogs/{id}. Only allow-listed fields may be
// assigned; unknown keys fail the whole request.
func (h *DogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := dogIDParam(w, r)
	if !ok {
		return
	}

	var payload map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	for field := range payload {
		if !updatableDogFields[field] {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown field `%s`.", field))
			return
		}
	}

	dog, err := h.dogs.GetDogByID(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, err, id)
		return
	}

	if err := applyDogPatch(dog, payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.dogs.UpdateDog(r.Context(), dog); err != nil {
		h.handleStoreError(w, err, id)
		return
	}

	h.logger.Info("dog updated", "dog_id", dog.ID)

	writeJSON(w, http.StatusOK, dto.ToDogResponse(dog))
}

// Delete handles DELETE /api/dogs/{id}. The 204 response still carries
// the deleted dog's serialized form; clients rely on it.
func (h *DogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := dogIDParam(w, r)
	if !ok {
		return
	}

	dog, err := h.dogs.GetDogByID(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, err, id)
		return
	}

	if err := h.dogs.DeleteDog(r.Context(), id); err != nil {
		h.handleStoreError(w, err, id)
		return
	}

	h.logger.Info("dog deleted", "dog_id", id)

	writeJSON(w, http.StatusNoContent, dto.ToDogResponse(dog))
}

// applyDogPatch assigns allow-listed payload fields onto the dog,
// enforcing types.
func applyDogPatch(dog *model.Dog, payload map[string]json.RawMessage) error {
	if raw, ok := payload["name"]; ok {
		if err := json.Unmarshal(raw, &dog.Name); err != nil {
			return errors.New("Field `name` must be a string.")
		}
	}
	if raw, ok := payload["breed"]; ok {
		if err := json.Unmarshal(raw, &dog.Breed); err != nil {
			return errors.New("Field `breed` must be a string.")
		}
	}
	if raw, ok := payload["is_adoptable"]; ok {
		if err := json.Unmarshal(raw, &dog.IsAdoptable); err != nil {
			return errors.New("Field `is_adoptable` must be a boolean.")
		}
	}
	return nil
}

// handleStoreError maps repository errors to HTTP responses. The
// optional id feeds the not-found message.
func (h *DogHandler) handleStoreError(w http.ResponseWriter, err error, id ...int64) {
	if errors.Is(err, repository.ErrDogNotFound) && len(id) > 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Dog ID `%d` not found in database.", id[0]))
		return
	}
	h.logger.Error("dog store error", "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error.")
}

// dogIDParam parses the {id} route parameter. A non-numeric id could
// never match a row, so it reports the plain 404 page.
func dogIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Page not found.")
		return 0, false
	}
	return id, true
}
