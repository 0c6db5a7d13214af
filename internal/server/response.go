package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"StockTrends/internal/collector"
	"StockTrends/internal/compare"
	"StockTrends/internal/forecast"
)

// Response is the JSON envelope of every API endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, collector.ErrInvalidSelection):
		return http.StatusBadRequest
	case errors.Is(err, collector.ErrDataUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, forecast.ErrForecast), errors.Is(err, compare.ErrEmptyFrame):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func handleSuccess(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func handleError(c *gin.Context, message string, err error) {
	c.JSON(statusFor(err), Response{
		Success: false,
		Message: message,
		Error:   err.Error(),
	})
}
