package users

import "time"

const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleCRMAdmin   = "CRM_ADMIN"
	RoleSales      = "SALES"
)

var validRoles = map[string]bool{
	RoleSuperAdmin: true,
	RoleCRMAdmin:   true,
	RoleSales:      true,
}

func IsValidRole(role string) bool {
	return validRoles[role]
}

type User struct {
	ID           string    `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Role         string    `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
