package httpserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/Clark-Hu/recipebox/internal/domain"
	"github.com/Clark-Hu/recipebox/internal/media"
	"github.com/Clark-Hu/recipebox/internal/repository"
	"github.com/Clark-Hu/recipebox/internal/service"
	"github.com/Clark-Hu/recipebox/internal/validation"
)

const maxRequestBody = 1 << 20 // 1 MiB

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	// The decoder hides read errors, so the size limit is hit here instead.
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

// decodeAndValidate decodes the body into dst and runs its validate tags.
// It writes the error response itself and reports whether to continue.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := decodeJSONBody(w, r, dst); err != nil {
		s.respondDecodeError(w, err)
		return false
	}
	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}
	if err := validation.Struct(dst); err != nil {
		s.respondValidationError(w, err)
		return false
	}
	return true
}

type normalizer interface {
	normalize()
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Error().Err(err).Msg("failed to encode response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesError):
		s.respondError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "Unable to parse request body")
	}
}

func (s *Server) respondValidationError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		s.respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Code:    "VALIDATION_ERROR",
			Message: verr.Error(),
			Details: verr.Fields,
		})
		return
	}
	s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
}

// respondServiceError maps domain and storage errors to API errors.
// Anything unrecognised is logged and reported as a 500 naming action.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, service.ErrForbidden):
		s.respondError(w, http.StatusForbidden, "FORBIDDEN", "User not authorized")
	case errors.Is(err, domain.ErrInvalidRating):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "rating must be an integer between 1 and 5")
	case errors.Is(err, domain.ErrAlreadyReviewed):
		s.respondError(w, http.StatusBadRequest, "DUPLICATE", "Recipe already reviewed")
	case errors.Is(err, service.ErrUserExists):
		s.respondError(w, http.StatusBadRequest, "DUPLICATE", "User already exists")
	case errors.Is(err, service.ErrAlreadyFavorite):
		s.respondError(w, http.StatusBadRequest, "DUPLICATE", "Recipe already in favorites")
	case errors.Is(err, service.ErrInvalidCredentials):
		s.respondError(w, http.StatusBadRequest, "INVALID_CREDENTIALS", "Invalid credentials")
	case errors.Is(err, repository.ErrConflict):
		s.respondError(w, http.StatusConflict, "CONFLICT", "Recipe was modified concurrently, please retry")
	case errors.Is(err, media.ErrUnsupportedImage):
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "Only JPEG, PNG or GIF images are accepted")
	case errors.Is(err, media.ErrNotConfigured), errors.Is(err, media.ErrUnavailable):
		s.respondError(w, http.StatusServiceUnavailable, "UPLOAD_UNAVAILABLE", "Image upload is currently unavailable")
	default:
		s.log(r).Error().Err(err).Msg(action + " failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to "+action)
	}
}
