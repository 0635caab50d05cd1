package models

import "time"

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleModerator:
		return true
	}
	return false
}

type User struct {
	BaseModel
	Email           string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name            string     `gorm:"type:varchar(100)"`
	PasswordHash    string     `gorm:"not null"`
	Role            Role       `gorm:"type:varchar(20);not null;default:'USER'"`
	EmailVerifiedAt *time.Time
}

// PublicUser - представление пользователя без секретов.
type PublicUser struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name,omitempty"`
	Role            Role       `json:"role"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// Public drops the password hash. Handlers must never serialize User directly.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Role:            u.Role,
		EmailVerifiedAt: u.EmailVerifiedAt,
		CreatedAt:       u.CreatedAt,
	}
}
