// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold. Only admins may enter the /admin area.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the site owner's account record.
//
// NOTE:
//   - Password holds the bcrypt hash and is excluded by projection from
//     every normal read; only the verification paths request it.
//   - TokenVersion only ever increases. Session tokens carry the value
//     they were issued with, so bumping it revokes older sessions.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"` // lowercase, trimmed
	Password     string             `bson:"password,omitempty" json:"-"`
	Role         string             `bson:"role" json:"role"` // admin | user
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	TokenVersion int                `bson:"token_version" json:"-"`
	OTP          string             `bson:"otp,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
