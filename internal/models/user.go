package models

// Role is the coarse authorization label carried by users and tokens.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// IsAdmin reports whether r grants unrestricted read access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// User represents a row of the users table. Pass always holds a bcrypt hash and is never serialized.
type User struct {
	ID        int64  `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Pass      string `json:"-"`
	Role      Role   `json:"role"`
}

// UserRequest is the body of POST /users/create and PUT /users/update/:id.
type UserRequest struct {
	Firstname string `json:"firstname" validate:"required"`
	Lastname  string `json:"lastname" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Pass      string `json:"pass" validate:"required,maxbytes=72"`
	Role      Role   `json:"role" validate:"required,oneof=user admin"`
}
