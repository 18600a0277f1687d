package auth

// Package auth contains domain-level types for authentication against the Madek API.
// It is pure and free of framework/adapter concerns.

// User is the authenticated principal reported by the user-info endpoint.
type User struct {
	ID        string `json:"id"`
	Login     string `json:"login"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
}

// DisplayName returns "First Last", falling back to the login.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Login
	}
}

// IsZero reports whether the user carries no identifier.
func (u User) IsZero() bool { return u.ID == "" }

// AuthInfo is the body of a successful user-info response.
type AuthInfo struct {
	User User `json:"user"`
}
