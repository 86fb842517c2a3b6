package analysis

import (
	"net/http"

	"ClassVision/pkg/response"
)

var (
	ErrSessionNotFound = response.NewError(http.StatusNotFound, "session not found")
	ErrNoImageProvided = response.NewError(http.StatusBadRequest, "no image file provided")
	ErrImageNotStored  = response.NewError(http.StatusNotFound, "session has no stored image")
)
