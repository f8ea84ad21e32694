package helpers

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/andrescamacho/railbot-go/internal/application/common"
)

// MockMediator is a test double for the Mediator interface. Handlers under
// test dispatch follow-up requests through the mediator; tests script the
// responses with SetSendFunc and assert the dispatch order via the call log.
type MockMediator struct {
	mu       sync.Mutex
	sendFunc func(ctx context.Context, request common.Request) (common.Response, error)
	callLog  []string
}

// NewMockMediator creates a new MockMediator
func NewMockMediator() *MockMediator {
	return &MockMediator{
		callLog: []string{},
	}
}

// Send implements the Mediator interface
func (m *MockMediator) Send(ctx context.Context, request common.Request) (common.Response, error) {
	m.mu.Lock()
	m.callLog = append(m.callLog, requestName(request))
	fn := m.sendFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, request)
	}
	return nil, fmt.Errorf("unscripted request type: %T", request)
}

// SetSendFunc sets a custom function for Send calls
func (m *MockMediator) SetSendFunc(fn func(ctx context.Context, request common.Request) (common.Response, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendFunc = fn
}

// GetCallLog returns the request type names in dispatch order
func (m *MockMediator) GetCallLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.callLog...)
}

// ClearCallLog clears the call log
func (m *MockMediator) ClearCallLog() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callLog = []string{}
}

// Register implements the Mediator interface (no-op for tests)
func (m *MockMediator) Register(requestType reflect.Type, handler common.RequestHandler) error {
	return nil
}

// Use implements the Mediator interface (no-op for tests)
func (m *MockMediator) Use(middleware common.Middleware) {
}

func requestName(request common.Request) string {
	t := reflect.TypeOf(request)
	if t == nil {
		return "nil"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Ensure MockMediator implements the common.Mediator interface
var _ common.Mediator = (*MockMediator)(nil)
