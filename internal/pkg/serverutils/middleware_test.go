package serverutils

import (
	"errors"
	"net/http/httptest"
	"testing"

	"admissions-chatbot-be/internal/constant"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newErrorApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/", handler)
	return app
}

func TestErrorHandlerMiddlewareMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"empty message", constant.ErrEmptyMessage, fiber.StatusBadRequest},
		{"invalid request", constant.ErrInvalidRequest, fiber.StatusBadRequest},
		{"session not found", constant.ErrSessionNotFound, fiber.StatusNotFound},
		{"rate limited", constant.ErrTooManyRequests, fiber.StatusTooManyRequests},
		{"fiber error keeps its code", fiber.NewError(fiber.StatusServiceUnavailable, "down"), fiber.StatusServiceUnavailable},
		{"unknown error is internal", errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newErrorApp(func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestErrorHandlerMiddlewarePassesSuccess(t *testing.T) {
	app := newErrorApp(func(c *fiber.Ctx) error {
		return c.JSON(SuccessResponse("ok", nil))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRateLimitMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Use(RateLimitMiddleware(1, 2))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestValidateRequest(t *testing.T) {
	type payload struct {
		Message   string `validate:"required"`
		SessionId string `validate:"required"`
	}

	assert.NoError(t, ValidateRequest(&payload{Message: "hi", SessionId: "s1"}))
	assert.Error(t, ValidateRequest(&payload{Message: "hi"}))
}
