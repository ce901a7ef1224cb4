package main

import (
	"fmt"
	"strings"

	"github.com/baharehpourmalayeri/fifty/models"

	"golang.org/x/crypto/bcrypt"
)

// RegisterUser creates a new identity with a bcrypt-hashed password.
func RegisterUser(email, username, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	if email == "" {
		return nil, fmt.Errorf("email required")
	}
	if username == "" {
		return nil, fmt.Errorf("username required")
	}
	if len(password) < 6 { // basic password policy
		return nil, fmt.Errorf("password too short (min 6)")
	}
	// pre-check existing (optimistic)
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("email already registered")
	}
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("username already taken")
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{Email: email, Username: username, HashedPassword: hashedPassword, IsActive: true}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) { // race condition after initial checks
			return nil, fmt.Errorf("email or username already taken")
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate resolves an identity by email and verifies the password.
// Unknown email and wrong password return the same error.
func Authenticate(email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}
	if !user.IsActive {
		return nil, fmt.Errorf("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}
	return &user, nil
}
