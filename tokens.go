package main

import (
	"time"

	"github.com/baharehpourmalayeri/fifty/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// signToken mints a self-contained HS256 token. The token_type claim keeps
// access and refresh contexts apart so one cannot stand in for the other.
func signToken(userID uint, tokenType string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    userID,
		"token_type": tokenType,
		"exp":        time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(jwtSecret)
}

// issueTokenPair mints a fresh access/refresh pair for the identity. Purely
// cryptographic; nothing is written to the database.
func issueTokenPair(user *models.User) (access, refresh string, err error) {
	access, err = signToken(user.ID, tokenTypeAccess, accessTokenTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = signToken(user.ID, tokenTypeRefresh, refreshTokenTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// parseToken verifies signature, expiry and token_type and extracts the
// user_id claim. Every failure collapses to errInvalidToken.
func parseToken(raw, wantType string) (uint, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, errInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errInvalidToken
	}
	if tt, _ := claims["token_type"].(string); tt != wantType {
		return 0, errInvalidToken
	}
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return 0, errInvalidToken
	}
	return uint(id), nil
}

func verifyAccessToken(raw string) (uint, error) {
	return parseToken(raw, tokenTypeAccess)
}

// rotateRefreshToken verifies a refresh token and mints a new pair for the
// embedded identity. The presented token stays valid until its own expiry;
// there is no server-side revocation list.
func rotateRefreshToken(raw string) (*models.User, string, string, error) {
	userID, err := parseToken(raw, tokenTypeRefresh)
	if err != nil {
		return nil, "", "", err
	}
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, "", "", errUserNotFound
	}
	access, refresh, err := issueTokenPair(&user)
	if err != nil {
		return nil, "", "", err
	}
	return &user, access, refresh, nil
}
