package api

// Request DTOs

// RegisterRequest creates an account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest starts a session. UsernameEmail accepts either identifier.
type LoginRequest struct {
	UsernameEmail string `json:"usernameEmail" validate:"required"`
	Password      string `json:"password" validate:"required"`
	StayLoggedIn  bool   `json:"stayLoggedIn"`
}

// ChangePasswordRequest sets the password of the session user.
type ChangePasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// UpdateUserAttributesRequest replaces the given attributes. A nil value
// removes the attribute.
type UpdateUserAttributesRequest struct {
	Attributes map[string]*string `json:"attributes" validate:"required"`
}
