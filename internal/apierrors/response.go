package apierrors

import (
	"errors"

	"github.com/dtroode/gophaccounts-server/internal/model"
)

// Response is the JSON body rendered for failed requests.
type Response struct {
	Status  int                `json:"status"`
	Name    string             `json:"name"`
	Message string             `json:"message"`
	Items   []model.FieldError `json:"items,omitempty"`
	Path    string             `json:"path,omitempty"`
}

// FromError maps any error onto the API taxonomy.
// Unknown errors become a generic bad request.
func FromError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return NewErrValidation(verr)
	}

	switch {
	case errors.Is(err, model.ErrInvalidToken):
		return NewErrInvalidAuthorizationToken()
	case errors.Is(err, model.ErrNotFound):
		return NewErrNotFound("")
	default:
		return NewErrBadRequest("")
	}
}

// ToResponse renders err as a response body for the given request path.
func ToResponse(err error, path string) Response {
	apiErr := FromError(err)
	return Response{
		Status:  apiErr.HTTPStatus,
		Name:    apiErr.Name,
		Message: apiErr.Message,
		Items:   apiErr.Items,
		Path:    path,
	}
}
