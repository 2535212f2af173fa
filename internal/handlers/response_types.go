package handlers

import "github.com/xpanvictor/linguavox/internal/domains/translation"

// Response wrapper types for Swagger documentation

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Something went wrong"`
	Details string `json:"details,omitempty" example:"Validation error details"`
}

// TranslationRequest is the body of POST /translate
type TranslationRequest = translation.Request

// TranslationResponse is the success body of POST /translate
type TranslationResponse = translation.Response

// DummyResponse is the canned body of GET /dummy
type DummyResponse struct {
	UserID int    `json:"userId" example:"1"`
	ID     int    `json:"id" example:"1"`
	Title  string `json:"title" example:"Dummy Title"`
	Body   string `json:"body" example:"This is a dummy response."`
}

// HealthResponse is returned by /health
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
