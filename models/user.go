package models

// User is a registered account. Password holds the bcrypt hash, never the plain text.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

// PublicUser is the part of a User that is safe to return to clients
type PublicUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u User) Public() PublicUser {
	return PublicUser{Username: u.Username, Email: u.Email}
}
