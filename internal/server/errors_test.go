package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	apikeydomain "github.com/reservaspro/reservaspro/internal/apikey/domain"
	auditdomain "github.com/reservaspro/reservaspro/internal/audit/domain"
	"github.com/reservaspro/reservaspro/internal/authorization"
	bookingdomain "github.com/reservaspro/reservaspro/internal/booking/domain"
	catalogdomain "github.com/reservaspro/reservaspro/internal/catalog/domain"
	clientprofiledomain "github.com/reservaspro/reservaspro/internal/clientprofile/domain"
	"github.com/reservaspro/reservaspro/internal/locker"
	loyaltydomain "github.com/reservaspro/reservaspro/internal/loyalty/domain"
	loyaltyservice "github.com/reservaspro/reservaspro/internal/loyalty/service"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{"request validation", invalidRequestError(), http.StatusBadRequest, "validation_error"},
		{"level table", &loyaltydomain.ValidationError{Code: loyaltydomain.ReasonDuplicateLevel}, http.StatusBadRequest, "validation_error"},
		{"catalog price", catalogdomain.ErrInvalidPrice, http.StatusBadRequest, "validation_error"},
		{"booking start", bookingdomain.ErrInvalidStartTime, http.StatusBadRequest, "validation_error"},
		{"api key unauthorized", apikeydomain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"authorization denied", authorization.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"already completed", bookingdomain.ErrAlreadyCompleted, http.StatusConflict, "conflict"},
		{"slot taken", bookingdomain.ErrSlotUnavailable, http.StatusConflict, "conflict"},
		{"email taken", clientprofiledomain.ErrEmailTaken, http.StatusConflict, "conflict"},
		{"wrapped concurrent update", fmt.Errorf("apply progress: %w", clientprofiledomain.ErrConcurrentUpdate), http.StatusConflict, "conflict"},
		{"lock timeout", locker.ErrLockTimeout, http.StatusConflict, "conflict"},
		{"reward missing", loyaltydomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"voucher renderer missing", loyaltyservice.ErrVoucherUnavailable, http.StatusServiceUnavailable, "service_unavailable"},
		{"audit page token", auditdomain.ErrInvalidPageToken, http.StatusBadRequest, "validation_error"},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{"tenant without levels", fmt.Errorf("resolve level: %w", loyaltydomain.ErrEmptyLevelTable), http.StatusInternalServerError, "internal_error"},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.typ, payload.Type)
		})
	}
}

func TestMapErrorHidesInternalDetails(t *testing.T) {
	_, payload := mapError(errors.New("dial tcp 10.0.0.1:5432: secret host"))
	assert.Equal(t, "internal server error", payload.Message)
	assert.Empty(t, payload.Errors)
}

func TestClassifyErrorForLog(t *testing.T) {
	typ, code := classifyErrorForLog(bookingdomain.ErrInvalidClient)
	assert.Equal(t, "validation_error", typ)
	assert.Equal(t, "invalid_client", code)

	typ, code = classifyErrorForLog(bookingdomain.ErrAlreadyCompleted)
	assert.Equal(t, "conflict", typ)
	assert.Equal(t, "conflict", code)
}
