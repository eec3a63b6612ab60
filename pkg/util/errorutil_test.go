package util

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassesThroughDomainErrors(t *testing.T) {
	original := NewForbidden("access denied")

	mapped := ToDomainError(original)
	require.Equal(t, http.StatusForbidden, mapped.HTTPStatus)
	require.Equal(t, "access denied", mapped.Message)
}

func TestToDomainErrorMapsRowMissesToNotFound(t *testing.T) {
	for _, miss := range []error{pgx.ErrNoRows, sql.ErrNoRows} {
		mapped := ToDomainError(miss)
		require.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
		require.Equal(t, "NOT_FOUND", mapped.Code)
	}
}

func TestToDomainErrorWrapsUnknownErrorsAsInternal(t *testing.T) {
	mapped := ToDomainError(errors.New("connection reset"))
	require.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
	require.Equal(t, "INTERNAL_ERROR", mapped.Code)
	require.Equal(t, "internal server error", mapped.Message)
}
