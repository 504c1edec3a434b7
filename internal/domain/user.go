package domain

// Role determines which surfaces a user can reach.
type Role string

const (
	RoleTourist  Role = "tourist"
	RoleBusiness Role = "business"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID       int64  `json:"id"`
	UserName string `json:"user_name"`
	FullName string `json:"full_name"`
	Age      *int   `json:"age,omitempty"`
	Role     Role   `json:"role"`
}

// Session is the catalog's session introspection payload (GET /auth/me).
// It is resolved once per request and passed explicitly to whatever needs it.
type Session struct {
	UserID   int64  `json:"user_id"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}
