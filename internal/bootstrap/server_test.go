package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/airline/config"
	"github.com/Domenick1991/airline/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func testConfig() *config.Config {
	return &config.Config{
		HTTP:    config.HTTPConfig{Address: ":0"},
		GRPC:    config.GRPCConfig{Address: ":9090"},
		Session: config.SessionConfig{CookieName: "sessionid", TTLMinutes: 60},
	}
}

func TestDialAddress(t *testing.T) {
	assert.Equal(t, "localhost:9090", dialAddress(":9090"))
	assert.Equal(t, "grpc.internal:9090", dialAddress("grpc.internal:9090"))
}

func TestNewServers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s, err := NewServers(testConfig(), Deps{Logger: logging.Discard()})
	require.NoError(t, err)
	defer s.gatewayConn.Close()

	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestUpdateHealth(t *testing.T) {
	s, err := NewServers(testConfig(), Deps{
		Logger: logging.Discard(),
		Checks: map[string]Check{
			"postgres": func(ctx context.Context) error { return nil },
			"redis":    func(ctx context.Context) error { return errors.New("connection refused") },
		},
	})
	require.NoError(t, err)
	defer s.gatewayConn.Close()

	ctx := context.Background()
	s.updateHealth(ctx)

	check := func(service string) healthpb.HealthCheckResponse_ServingStatus {
		resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		require.NoError(t, err)
		return resp.Status
	}
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check("postgres"))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check("redis"))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(""))
}
