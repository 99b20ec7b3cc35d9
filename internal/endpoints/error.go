package endpoints

import (
	"errors"

	"dashbuilder/internal/domain"
)

const (
	API_SUCCESS = iota + 202000 // 202000
	API_FAILURE                 // 202001 - Generic API failure
)

const (
	DASHBOARD_NOT_FOUND  = iota + 201 // 201 - Referenced dashboard id has no row
	DASHBOARD_CONFLICT                // 202 - uid/id collided with an existing dashboard
	NO_METRIC_DATA                    // 203 - No samples for the given name/labels
	INVALID_REQUEST_BODY              // 204 - Error parsing request body
	INVALID_PARAMETERS                // 205 - Bad query parameters (labels JSON, timestamps)
	REQUEST_CANCELLED                 // 206 - Request cancelled by client or server timeout
)

var (
	ErrInvalidRequestBody = errors.New("invalid request body format or missing fields")
	ErrInvalidParameters  = errors.New("invalid query parameters")
	ErrRequestCancelled   = errors.New("request cancelled by client or server timeout")
)

func GetErrorCode(err error) int {
	if err == nil {
		return API_SUCCESS
	}

	switch {
	case errors.Is(err, domain.ErrDashboardNotFound):
		return DASHBOARD_NOT_FOUND
	case errors.Is(err, domain.ErrDashboardExists):
		return DASHBOARD_CONFLICT
	case errors.Is(err, domain.ErrNoData):
		return NO_METRIC_DATA
	case errors.Is(err, ErrInvalidRequestBody):
		return INVALID_REQUEST_BODY
	case errors.Is(err, ErrInvalidParameters):
		return INVALID_PARAMETERS
	case errors.Is(err, ErrRequestCancelled):
		return REQUEST_CANCELLED
	default:
		return API_FAILURE
	}
}
