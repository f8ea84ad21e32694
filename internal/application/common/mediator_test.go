package common_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/application/common"
)

type pingRequest struct {
	Value string
}

type pingHandler struct {
	response common.Response
	err      error
	calls    int
}

func (h *pingHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	h.calls++
	if h.err != nil {
		return nil, h.err
	}
	return h.response, nil
}

type panickyHandler struct{}

func (panickyHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	panic("boom")
}

func TestMediatorDispatchesToRegisteredHandler(t *testing.T) {
	m := common.NewMediator()
	handler := &pingHandler{response: "pong"}
	require.NoError(t, common.RegisterHandler[*pingRequest](m, handler))

	response, err := m.Send(context.Background(), &pingRequest{Value: "hello"})

	require.NoError(t, err)
	assert.Equal(t, "pong", response)
	assert.Equal(t, 1, handler.calls)
}

func TestMediatorRejectsUnknownRequests(t *testing.T) {
	m := common.NewMediator()

	_, err := m.Send(context.Background(), &pingRequest{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler registered")
}

func TestMediatorRejectsDuplicateRegistration(t *testing.T) {
	m := common.NewMediator()
	require.NoError(t, common.RegisterHandler[*pingRequest](m, &pingHandler{}))

	err := common.RegisterHandler[*pingRequest](m, &pingHandler{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestMiddlewareRunsInRegistrationOrder(t *testing.T) {
	m := common.NewMediator()
	require.NoError(t, common.RegisterHandler[*pingRequest](m, &pingHandler{response: "pong"}))

	var order []string
	tag := func(name string) common.Middleware {
		return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
			order = append(order, name+" in")
			response, err := next(ctx, request)
			order = append(order, name+" out")
			return response, err
		}
	}
	m.Use(tag("outer"))
	m.Use(tag("inner"))

	_, err := m.Send(context.Background(), &pingRequest{})

	require.NoError(t, err)
	assert.Equal(t, []string{"outer in", "inner in", "inner out", "outer out"}, order)
}

func TestRecoveryMiddlewareConvertsPanics(t *testing.T) {
	m := common.NewMediator()
	m.Use(common.RecoveryMiddleware())
	require.NoError(t, common.RegisterHandler[*pingRequest](m, panickyHandler{}))

	response, err := m.Send(context.Background(), &pingRequest{})

	require.Error(t, err)
	assert.Nil(t, response)
	assert.Contains(t, err.Error(), "handler panic")
}

func TestLoggingMiddlewarePassesResultsThrough(t *testing.T) {
	m := common.NewMediator()
	m.Use(common.LoggingMiddleware())
	ctx := common.WithLogger(context.Background(), common.NewNoOpLogger())

	t.Run("success", func(t *testing.T) {
		require.NoError(t, common.RegisterHandler[*pingRequest](m, &pingHandler{response: "pong"}))
		response, err := m.Send(ctx, &pingRequest{})
		require.NoError(t, err)
		assert.Equal(t, "pong", response)
	})

	t.Run("failure", func(t *testing.T) {
		failing := common.NewMediator()
		failing.Use(common.LoggingMiddleware())
		require.NoError(t, common.RegisterHandler[*pingRequest](failing, &pingHandler{err: errors.New("backend down")}))
		_, err := failing.Send(ctx, &pingRequest{})
		require.EqualError(t, err, "backend down")
	})
}

func TestLoggerContextRoundTrip(t *testing.T) {
	assert.NotNil(t, common.LoggerFromContext(context.Background()), "missing logger falls back to a no-op")

	logger := common.NewConsoleLogger(common.LevelError)
	ctx := common.WithLogger(context.Background(), logger)
	assert.Equal(t, logger, common.LoggerFromContext(ctx))
}
