package main

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	errSensorNotFound  = errors.New("sensor not found")
	errReadingConflict = errors.New("reading already exists for this timestamp")
	errInvalidToken    = errors.New("invalid or expired token")
	errUserNotFound    = errors.New("user not found")
)

// respondError writes the uniform {code, message} envelope. Nothing beyond
// the human-readable message ever leaves the service.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"code": status, "message": message})
}

// isUniqueConstraintError matches the wording of both Postgres and the sqlite
// driver used in tests.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}
