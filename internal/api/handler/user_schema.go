package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// createUserRequest is accepted by both public create endpoints. Role is
// bound but never forwarded: each endpoint fixes the role server-side.
type createUserRequest struct {
	Name        string `json:"name"        validate:"required"`
	Email       string `json:"email"       validate:"required,email"`
	Password    string `json:"password"    validate:"required,min=8"`
	Description string `json:"description" validate:"omitempty"`
	Role        string `json:"role"        validate:"omitempty"`
}

// updateUserRequest carries the only fields a profile update may touch.
// The password cannot be changed through this request.
type updateUserRequest struct {
	Name        *string `json:"name"        validate:"omitempty"`
	Email       *string `json:"email"       validate:"omitempty,email"`
	Description *string `json:"description" validate:"omitempty"`
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

// --- Response types ---

// userResponse is the public projection of an account. The password hash
// and deletion marker never appear here; this struct is the only shape a
// user ever serializes through.
type userResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Description string    `json:"description,omitempty"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type loginResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
	Token   string       `json:"token"`
}

type userEnvelopeResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type listUsersResponse struct {
	Message string         `json:"message"`
	Users   []userResponse `json:"users"`
}
