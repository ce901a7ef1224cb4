package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/baharehpourmalayeri/fifty/models"

	"github.com/gin-gonic/gin"
)

func setupRoutes(r *gin.Engine) {
	r.GET("/health", healthHandler)
	r.POST("/auth/register", registerHandler)
	r.POST("/auth/token", loginHandler)
	r.POST("/auth/refresh", refreshHandler)
	authGroup := r.Group("")
	authGroup.Use(authMiddleware())
	authGroup.GET("/me", meHandler)
	authGroup.GET("/sensors", listSensorsHandler)
	authGroup.POST("/sensors", createSensorHandler)
	authGroup.GET("/sensors/:id", getSensorHandler)
	authGroup.PUT("/sensors/:id", updateSensorHandler)
	authGroup.DELETE("/sensors/:id", deleteSensorHandler)
	authGroup.GET("/sensors/:id/readings", listReadingsHandler)
	authGroup.POST("/sensors/:id/readings", createReadingHandler)
}

type userSummary struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type tokenPairResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         userSummary `json:"user"`
}

type sensorResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Model       string    `json:"model"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type sensorListResponse struct {
	HasNext     bool             `json:"has_next"`
	HasPrevious bool             `json:"has_previous"`
	Items       []sensorResponse `json:"items"`
}

type readingResponse struct {
	ID          uint      `json:"id"`
	SensorID    uint      `json:"sensor_id"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Timestamp   time.Time `json:"timestamp"`
}

func summarize(user *models.User) userSummary {
	return userSummary{ID: user.ID, Email: user.Email, Username: user.Username}
}

func toSensorResponse(s *models.Sensor) sensorResponse {
	return sensorResponse{
		ID:          s.ID,
		Name:        s.Name,
		Model:       s.Model,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toReadingResponse(r *models.Reading) readingResponse {
	return readingResponse{
		ID:          r.ID,
		SensorID:    r.SensorID,
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		Timestamp:   r.Timestamp,
	}
}

// authMiddleware resolves the acting identity from the bearer token. Every
// verification failure maps to the same 401 so callers cannot tell a bad
// signature from an expired token or a deleted account.
func authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		raw := strings.TrimPrefix(authHeader, "Bearer ")
		if raw == "" {
			respondError(c, http.StatusUnauthorized, "missing or invalid Authorization header")
			c.Abort()
			return
		}
		userID, err := verifyAccessToken(raw)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}
		var user models.User
		if err := db.First(&user, userID).Error; err != nil || !user.IsActive {
			respondError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}
		c.Set("user", &user)
		c.Next()
	}
}

// currentUser returns the identity attached by authMiddleware.
func currentUser(c *gin.Context) *models.User {
	v, _ := c.Get("user")
	user, _ := v.(*models.User)
	return user
}

func healthHandler(c *gin.Context) {
	sqlDB, err := db.DB()
	if err != nil || sqlDB.Ping() != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func meHandler(c *gin.Context) {
	c.JSON(http.StatusOK, summarize(currentUser(c)))
}

func registerHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	user, err := RegisterUser(req.Email, req.Username, req.Password)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	access, refresh, err := issueTokenPair(user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to generate tokens")
		return
	}
	c.JSON(http.StatusCreated, tokenPairResponse{AccessToken: access, RefreshToken: refresh, User: summarize(user)})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	user, err := Authenticate(req.Email, req.Password)
	if err != nil {
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	}
	access, refresh, err := issueTokenPair(user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to generate tokens")
		return
	}
	c.JSON(http.StatusOK, tokenPairResponse{AccessToken: access, RefreshToken: refresh, User: summarize(user)})
}

// refreshHandler exchanges a refresh token for a new token pair.
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	user, access, refresh, err := rotateRefreshToken(req.RefreshToken)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}
	c.JSON(http.StatusOK, tokenPairResponse{AccessToken: access, RefreshToken: refresh, User: summarize(user)})
}

// sensorIDParam parses the :id path segment. A malformed id behaves like a
// missing sensor.
func sensorIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusNotFound, errSensorNotFound.Error())
		return 0, false
	}
	return uint(id), true
}

func listSensorsHandler(c *gin.Context) {
	user := currentUser(c)
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		respondError(c, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if err != nil || pageSize < 1 || pageSize > maxPageSize {
		respondError(c, http.StatusBadRequest, "page_size must be between 1 and 100")
		return
	}
	result, err := listSensors(user, page, pageSize, c.Query("q"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "query failed")
		return
	}
	items := make([]sensorResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toSensorResponse(&result.Items[i]))
	}
	c.JSON(http.StatusOK, sensorListResponse{HasNext: result.HasNext, HasPrevious: result.HasPrevious, Items: items})
}

func createSensorHandler(c *gin.Context) {
	user := currentUser(c)
	var req struct {
		Name        string  `json:"name" binding:"required"`
		Model       string  `json:"model" binding:"required"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	sensor, err := createSensor(user, req.Name, req.Model, req.Description)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "create failed")
		return
	}
	c.JSON(http.StatusCreated, toSensorResponse(sensor))
}

func getSensorHandler(c *gin.Context) {
	user := currentUser(c)
	id, ok := sensorIDParam(c)
	if !ok {
		return
	}
	sensor, err := getOwnedSensor(db, user.ID, id)
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, toSensorResponse(sensor))
}

func updateSensorHandler(c *gin.Context) {
	user := currentUser(c)
	id, ok := sensorIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Name        *string `json:"name"`
		Model       *string `json:"model"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	sensor, err := updateSensor(user, id, sensorUpdate{Name: req.Name, Model: req.Model, Description: req.Description})
	if err != nil {
		if errors.Is(err, errSensorNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "update failed")
		return
	}
	c.JSON(http.StatusOK, toSensorResponse(sensor))
}

func deleteSensorHandler(c *gin.Context) {
	user := currentUser(c)
	id, ok := sensorIDParam(c)
	if !ok {
		return
	}
	if err := deleteSensor(user, id); err != nil {
		if errors.Is(err, errSensorNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "delete failed")
		return
	}
	c.Status(http.StatusNoContent)
}

// timestampQuery parses an optional RFC3339 query parameter.
func timestampQuery(c *gin.Context, name string) (*time.Time, bool) {
	v := c.Query(name)
	if v == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		respondError(c, http.StatusBadRequest, name+" must be an RFC3339 timestamp")
		return nil, false
	}
	return &t, true
}

func listReadingsHandler(c *gin.Context) {
	user := currentUser(c)
	id, ok := sensorIDParam(c)
	if !ok {
		return
	}
	from, ok := timestampQuery(c, "timestamp_from")
	if !ok {
		return
	}
	to, ok := timestampQuery(c, "timestamp_to")
	if !ok {
		return
	}
	readings, err := listReadings(user, id, from, to)
	if err != nil {
		if errors.Is(err, errSensorNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "query failed")
		return
	}
	out := make([]readingResponse, 0, len(readings))
	for i := range readings {
		out = append(out, toReadingResponse(&readings[i]))
	}
	c.JSON(http.StatusOK, out)
}

func createReadingHandler(c *gin.Context) {
	user := currentUser(c)
	id, ok := sensorIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Temperature *float64   `json:"temperature" binding:"required"`
		Humidity    *float64   `json:"humidity" binding:"required"`
		Timestamp   *time.Time `json:"timestamp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	reading, err := createReading(user, id, *req.Temperature, *req.Humidity, *req.Timestamp)
	if err != nil {
		switch {
		case errors.Is(err, errSensorNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, errReadingConflict):
			// surfaced as 400 in the uniform envelope rather than a bare 409
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "create failed")
		}
		return
	}
	c.JSON(http.StatusCreated, toReadingResponse(reading))
}
