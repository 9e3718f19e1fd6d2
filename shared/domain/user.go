package domain

// User is the public profile of an account.
type User struct {
	UUID     UserId   `json:"uuid" validate:"uuid"`
	Username Username `json:"username"`
}

// UserDetails is what the backend reveals about the logged-in user only.
// A nil attribute value means the attribute is explicitly unset.
type UserDetails struct {
	User
	Email      Email              `json:"email" validate:"email"`
	Attributes map[string]*string `json:"attributes"`
}
