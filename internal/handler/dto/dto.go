// Package dto provides Data Transfer Objects for API requests and responses.
//
// Every endpoint serializes through an explicit response struct; entity
// graphs are never rendered recursively, so adoption back-references can
// not cycle.
package dto

import (
	"time"

	"github.com/djprofessorkash/pet-emporium-project/internal/model"
)

// SignupRequest represents the request body for account creation.
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for authentication.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateDogRequest represents the request body for adding a dog.
type CreateDogRequest struct {
	Name  string `json:"name"`
	Breed string `json:"breed"`
}

// DogResponse is the catalog view of a dog. Adoptability and timestamps
// are deliberately not exposed on dog routes.
type DogResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Breed string `json:"breed"`
}

// UserResponse is the public view of a user returned by signup and login.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionUserResponse is the view returned by the session check.
type SessionUserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries informational payloads.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// ToDogResponse converts a Dog model to its catalog view.
func ToDogResponse(dog *model.Dog) DogResponse {
	return DogResponse{
		ID:    dog.ID,
		Name:  dog.Name,
		Breed: dog.Breed,
	}
}

// ToDogResponses converts a slice of dogs. Always returns a non-nil
// slice so empty lists serialize as [] rather than null.
func ToDogResponses(dogs []*model.Dog) []DogResponse {
	responses := make([]DogResponse, 0, len(dogs))
	for _, dog := range dogs {
		responses = append(responses, ToDogResponse(dog))
	}
	return responses
}

// ToUserResponse converts a User model to its public view.
func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
}

// ToSessionUserResponse converts a User model to the session-check view.
func ToSessionUserResponse(user *model.User) SessionUserResponse {
	return SessionUserResponse{
		ID:        user.ID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	}
}
