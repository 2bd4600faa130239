package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/franpass87/experience-booking/internal/config"
	"github.com/franpass87/experience-booking/internal/repository"
)

func newAuthHandlerTest(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4,
	}
	return NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)), mock
}

func createUserCtx(body, callerRole string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/users", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if callerRole != "" {
		c.Set("role", callerRole)
	}
	return c, rec
}

func TestCreateUserRejectsNonAdminCaller(t *testing.T) {
	h, mock := newAuthHandlerTest(t)

	// STAFF passes the admin group's guard but must not mint accounts.
	c, rec := createUserCtx(`{"email":"new@example.com","password":"pw","role":"ADMIN"}`, "STAFF")
	require.NoError(t, h.CreateUser(c))
	require.Equal(t, http.StatusForbidden, rec.Code)

	// The request must be refused before any database work happens.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserRejectsAnonymousCaller(t *testing.T) {
	h, mock := newAuthHandlerTest(t)

	c, rec := createUserCtx(`{"email":"new@example.com","password":"pw"}`, "")
	require.NoError(t, h.CreateUser(c))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserAsAdmin(t *testing.T) {
	h, mock := newAuthHandlerTest(t)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("new@example.com", sqlmock.AnyArg(), "STAFF").
		WillReturnResult(sqlmock.NewResult(9, 1))

	c, rec := createUserCtx(`{"email":"New@Example.com","password":"pw","role":"staff"}`, "ADMIN")
	require.NoError(t, h.CreateUser(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		User userPart `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, uint64(9), resp.User.ID)
	require.Equal(t, "new@example.com", resp.User.Email)
	require.Equal(t, "STAFF", resp.User.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDefaultsRoleToStaff(t *testing.T) {
	h, mock := newAuthHandlerTest(t)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("new@example.com", sqlmock.AnyArg(), "STAFF").
		WillReturnResult(sqlmock.NewResult(10, 1))

	c, rec := createUserCtx(`{"email":"new@example.com","password":"pw"}`, "ADMIN")
	require.NoError(t, h.CreateUser(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	h, mock := newAuthHandlerTest(t)

	c, rec := createUserCtx(`{"email":"new@example.com","password":"pw","role":"SUPERUSER"}`, "ADMIN")
	require.NoError(t, h.CreateUser(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	h, mock := newAuthHandlerTest(t)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("dup@example.com", sqlmock.AnyArg(), "STAFF").
		WillReturnError(errors.New("Error 1062: Duplicate entry"))

	c, rec := createUserCtx(`{"email":"dup@example.com","password":"pw"}`, "ADMIN")
	require.NoError(t, h.CreateUser(c))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
