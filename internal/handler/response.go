package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIResponse describes the standard envelope returned by the API.
type APIResponse struct {
	Status         string   `json:"status"`
	Message        string   `json:"message,omitempty"`
	Type           string   `json:"type,omitempty"`
	MissingColumns []string `json:"missing_columns,omitempty"`
	Data           any      `json:"data,omitempty"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	payload := APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
	return c.JSON(status, payload)
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	return Failure(c, status, message, "", nil)
}

// Failure is Error with a machine-readable category and, for input files,
// the columns that were missing.
func Failure(c echo.Context, status int, message, kind string, missing []string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	payload := APIResponse{
		Status:         "error",
		Message:        message,
		Type:           kind,
		MissingColumns: missing,
	}
	return c.JSON(status, payload)
}
