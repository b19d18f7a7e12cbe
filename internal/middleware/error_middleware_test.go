package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/ypropel/backend/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func handle(err error) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/users/me", nil)
	HandleAPIError(c, err)
	return w
}

func TestHandleAPIError_Classification(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"custom message", apperrors.NewForbiddenError("Not yours"), http.StatusForbidden, `{"error":"Not yours"}`},
		{"not found sentinel", apperrors.ErrUserNotFound, http.StatusNotFound, `{"error":"Resource not found"}`},
		{"no fields", apperrors.ErrNoFieldsToUpdate, http.StatusBadRequest, `{"error":"No valid fields to update"}`},
		{"duplicate email", apperrors.ErrEmailAlreadyExists, http.StatusConflict, `{"error":"Email already exists"}`},
		{
			"bad column value",
			fmt.Errorf("error updating profile: %w", &pgconn.PgError{Code: "22P02"}),
			http.StatusBadRequest,
			`{"error":"Invalid field value"}`,
		},
		{
			"missing required column",
			&pgconn.PgError{Code: "23502", ColumnName: "title"},
			http.StatusBadRequest,
			`{"error":"Invalid field value"}`,
		},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, `{"error":"Internal Server Error"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := handle(tc.err)
			assert.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, tc.body, w.Body.String())
		})
	}
}
