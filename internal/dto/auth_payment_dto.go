package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Auth DTOs ---

// Missing auth fields are reported as a single plain-text message, so these
// requests carry no validate tags.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserDTO struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type RegisterResponse struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

type LoginResponse struct {
	Success bool    `json:"success"`
	Token   string  `json:"token"`
	User    UserDTO `json:"user"`
}

// AuthResult carries the signed token and its lifetime back to the controller.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      UserDTO
}

// --- Payment DTOs ---

type PaymentProduct struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
}

type PaymentCard struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Country   string `json:"country"`
	Address   string `json:"address"`
}

type PaymentToken struct {
	Id    string      `json:"id" validate:"required"`
	Email string      `json:"email" validate:"required,email"`
	Card  PaymentCard `json:"card"`
}

type PaymentRequest struct {
	Product PaymentProduct `json:"product" validate:"required"`
	Token   PaymentToken   `json:"token" validate:"required"`
}
