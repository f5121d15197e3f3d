package auth

import (
	"golang.org/x/crypto/bcrypt"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUserWithPermissions(userID int64) (*User, error)
	HashPassword(password string) (string, error)
}

type RepositoryAPI interface {
	GetPasswordForUsername(username string) (passwordHash string, userID string, err error)
	GetUserWithPermissions(userID int64) (*User, error)
}

type User struct {
	ID          int64    `json:"id"`
	TenantID    int64    `json:"tenant_id"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions,omitempty"`
}

func (u *User) HasPermission(permission string) bool {
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func (u *User) HasAnyPermission(permissions []string) bool {
	for _, userPerm := range u.Permissions {
		for _, requiredPerm := range permissions {
			if userPerm == requiredPerm {
				return true
			}
		}
	}
	return false
}

func (u *User) IsManager() bool {
	managerPerms := []string{"approve_documents", "reject_documents", "admin"}
	return u.HasAnyPermission(managerPerms)
}

func (u *User) IsAdmin() bool {
	return u.HasPermission("admin")
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
