package dto_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mtlprog/dbprobe/internal/domain"
	"github.com/mtlprog/dbprobe/internal/handler/dto"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unavailable",
			err:        fmt.Errorf("list mongo databases: %w", domain.ErrDatabaseUnavailable),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "DATABASE_UNAVAILABLE",
		},
		{
			name:       "anything else",
			err:        errors.New("(Unauthorized) command listDatabases requires authentication"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, message := dto.MapDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
			assert.NotContains(t, message, "listDatabases")
		})
	}
}

func TestNewDatabasesResponse_NilBecomesEmpty(t *testing.T) {
	assert.Equal(t, []string{}, dto.NewDatabasesResponse(nil).Databases)
	assert.Equal(t, []string{"a", "b"}, dto.NewDatabasesResponse([]string{"a", "b"}).Databases)
}
