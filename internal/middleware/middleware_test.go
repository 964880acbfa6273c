package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"medquest/internal/domain"
	"medquest/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ManualMockTokenValidator struct {
	ValidateJWTFunc func(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

func (m *ManualMockTokenValidator) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	if m.ValidateJWTFunc != nil {
		return m.ValidateJWTFunc(ctx, tokenString)
	}
	return nil, errors.New("ValidateJWTFunc not set on mock")
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, v), string(body))
}

func TestProtected(t *testing.T) {
	validator := &ManualMockTokenValidator{
		ValidateJWTFunc: func(ctx context.Context, token string) (*dto.AuthClaims, error) {
			switch token {
			case "good":
				return &dto.AuthClaims{UserID: "user123", TokenType: "access"}, nil
			case "refresh":
				return &dto.AuthClaims{UserID: "user123", TokenType: "refresh"}, nil
			}
			return nil, domain.NewUnauthorizedError("invalid jwt token")
		},
	}

	tests := []struct {
		name         string
		header       string
		expectStatus int
		expectCode   string
	}{
		{"valid access token", "Bearer good", http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "MISSING_AUTH_HEADER"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "INVALID_AUTH_SCHEME"},
		{"invalid token", "Bearer forged", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"refresh token", "Bearer refresh", http.StatusUnauthorized, "INVALID_TOKEN_TYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/me", Protected(validator), func(c *fiber.Ctx) error {
				id, ok := CurrentUserID(c)
				require.True(t, ok)
				return c.SendString(id)
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(AuthorizationHeader, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectStatus, resp.StatusCode)

			if tt.expectCode == "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, "user123", string(body))
				return
			}
			var errResp ErrorResponse
			decode(t, resp, &errResp)
			assert.Equal(t, tt.expectCode, errResp.Code)
		})
	}
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.NewValidationError("bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{domain.NewUnauthorizedError("who"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.NewForbiddenError("not yours"), http.StatusForbidden, "FORBIDDEN"},
		{domain.NewNotFoundError("chat not found"), http.StatusNotFound, "NOT_FOUND"},
		{domain.NewAlreadyFinishedError("c1"), http.StatusConflict, "ALREADY_FINISHED"},
		{domain.NewConflictError("dup"), http.StatusConflict, "CONFLICT"},
		{domain.NewGenerationError("model down", errors.New("EOF")), http.StatusBadGateway, "GENERATION_ERROR"},
		{domain.NewEvaluationParseError("no score", nil), http.StatusBadGateway, "EVALUATION_PARSE_ERROR"},
		{domain.NewInternalError("db", errors.New("ORA-12541")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{errors.New("plain"), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{fiber.NewError(http.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed, "HTTP_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body ErrorResponse
			decode(t, resp, &body)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.status, body.Status)
		})
	}
}

func TestErrorHandler_WrappedDomainErrorKeepsContext(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Get("/", func(c *fiber.Ctx) error {
		return errors.Join(errors.New("outer"), domain.NewAlreadyFinishedError("01J0"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var body ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "01J0", body.Details["chat_id"])
}

func TestErrorHandler_ValidationErrors(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Post("/", func(c *fiber.Ctx) error {
		return domain.ValidationErrors{
			domain.NewMissingFieldError("email"),
			domain.NewOutOfRangeError("password", 3, 8, 72),
		}
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body ValidationErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "email", body.Errors[0].Field)
	assert.Equal(t, domain.CodeOutOfRange, body.Errors[1].Code)
}

func TestValidationMiddleware(t *testing.T) {
	vm := NewValidationMiddleware()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Get("/chats/:id", vm.ValidateChatID(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(ChatIDKey).(string))
	})
	app.Get("/top", vm.ValidateLimit(100), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"limit": c.Locals(LimitKey)})
	})

	cases := map[string]int{
		"/chats/01HZX3Q7ZK6T8E2M9V4N5R1BCD": http.StatusOK,
		"/chats/not-a-ulid":                 http.StatusBadRequest,
		"/top":                              http.StatusOK,
		"/top?limit=25":                     http.StatusOK,
		"/top?limit=abc":                    http.StatusBadRequest,
		"/top?limit=101":                    http.StatusBadRequest,
	}
	for path, status := range cases {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, status, resp.StatusCode, path)
	}
}

func TestRequestLogger_SeesFinalStatus(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(RequestLogger())
	app.Get("/missing", func(c *fiber.Ctx) error { return domain.NewNotFoundError("nope") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
