package handlers

import (
	"context"
	"net/http"

	"microwave"
	"microwave/internal/service"
	"microwave/internal/ws"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	validateOK    bool

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastValidated      string
	validateCalls      int
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ValidateToken(token string) bool {
	m.lastValidated = token
	m.validateCalls++
	return m.validateOK
}

type mockMicrowave struct {
	snap microwave.Snapshot
	err  error

	increasePowerCalls   int
	decreasePowerCalls   int
	increaseCounterCalls int
	decreaseCounterCalls int
	cancelCalls          int
	lastCancelAuthorized bool
}

func (m *mockMicrowave) IncreasePower(ctx context.Context) (microwave.Snapshot, error) {
	m.increasePowerCalls++
	return m.snap, m.err
}
func (m *mockMicrowave) DecreasePower(ctx context.Context) (microwave.Snapshot, error) {
	m.decreasePowerCalls++
	return m.snap, m.err
}
func (m *mockMicrowave) IncreaseCounter(ctx context.Context) (microwave.Snapshot, error) {
	m.increaseCounterCalls++
	return m.snap, m.err
}
func (m *mockMicrowave) DecreaseCounter(ctx context.Context) (microwave.Snapshot, error) {
	m.decreaseCounterCalls++
	return m.snap, m.err
}
func (m *mockMicrowave) Cancel(ctx context.Context, authorized bool) (microwave.Snapshot, error) {
	m.cancelCalls++
	m.lastCancelAuthorized = authorized
	if !authorized {
		return microwave.Snapshot{}, service.ErrAuthorizationDenied
	}
	return m.snap, m.err
}

type mockMonitoring struct {
	snap microwave.Snapshot
	err  error
}

func (m *mockMonitoring) Snapshot(ctx context.Context) (microwave.Snapshot, error) {
	return m.snap, m.err
}

type mockEventLog struct {
	events     []microwave.OvenEvent
	err        error
	lastFilter service.LogFilter
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]microwave.OvenEvent, error) {
	m.lastFilter = f
	return m.events, m.err
}

// ---- Test helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, ws.NewRegistry(nil), nil)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	hd := http.Header{}
	hd.Set("Authorization", "Bearer "+token)
	return hd
}
