// Package handler provides HTTP request handlers for the application.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultLimit       = 50
	maxLimit           = 1000
	defaultRandomCount = 10
)

// ErrorResponse is the JSON error body shared by all endpoints.
type ErrorResponse struct {
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
}

func sendError(c *gin.Context, statusCode int, errName, message string) {
	c.JSON(statusCode, ErrorResponse{
		Status:    statusCode,
		Error:     errName,
		Message:   message,
		Timestamp: time.Now(),
		Path:      c.Request.URL.Path,
	})
}

func badRequest(c *gin.Context, message string) {
	sendError(c, http.StatusBadRequest, "Bad Request", message)
}

func notFound(c *gin.Context, message string) {
	sendError(c, http.StatusNotFound, "Not Found", message)
}

func internalError(c *gin.Context, message string) {
	sendError(c, http.StatusInternalServerError, "Internal Server Error", message)
}

func parseLimit(c *gin.Context) int {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return defaultLimit
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		return defaultLimit
	}

	if limit > maxLimit {
		return maxLimit
	}

	return limit
}

func parseOffset(c *gin.Context) int {
	offsetStr := c.Query("offset")
	if offsetStr == "" {
		return 0
	}

	offset, err := strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		return 0
	}

	return offset
}

// parseUUIDParam parses a path parameter as a UUID, responding 400 on failure.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
