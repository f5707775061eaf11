package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"cabins/pkg/client"
	"cabins/pkg/middleware"
	"cabins/pkg/model"
)

const (
	EnvBaseURL        = "BOOKINGS_BASE_URL"
	EnvMongoURI       = "TEST_MONGO_URI"
	EnvDatabaseName   = "TEST_DB_NAME"
	EnvIdentitySecret = "IDENTITY_JWT_SECRET"

	DefaultMongoURI           = "mongodb://localhost:27017"
	DefaultDatabaseName       = "cabins"
	DefaultHealthCheckTimeout = 30 * time.Second
)

type TestEnv struct {
	BaseURL        string
	MongoURI       string
	DatabaseName   string
	IdentitySecret string
}

// NewTestEnv skips the test unless a running service is configured.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	baseURL := os.Getenv(EnvBaseURL)
	if baseURL == "" {
		t.Skipf("%s not set, skipping integration tests", EnvBaseURL)
	}

	env := &TestEnv{
		BaseURL:        baseURL,
		MongoURI:       getEnv(EnvMongoURI, DefaultMongoURI),
		DatabaseName:   getEnv(EnvDatabaseName, DefaultDatabaseName),
		IdentitySecret: os.Getenv(EnvIdentitySecret),
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultHealthCheckTimeout)
	defer cancel()
	if err := client.NewHttpClient(baseURL).WaitForHealthy(ctx, DefaultHealthCheckTimeout); err != nil {
		t.Fatalf("service at %s: %v", baseURL, err)
	}
	return env
}

// ClientFor returns a client acting as userID, authenticated the same way the
// service expects.
func (e *TestEnv) ClientFor(t *testing.T, userID string) *client.BookingClient {
	t.Helper()

	c := client.NewBookingClient(e.BaseURL)
	identity := model.Identity{UserID: userID, Email: fmt.Sprintf("%s@example.com", userID)}
	if e.IdentitySecret == "" {
		return c.AsUser(identity.UserID, identity.Email)
	}

	token, err := middleware.IssueToken(e.IdentitySecret, identity, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return c.WithBearer(token)
}

func (e *TestEnv) Anonymous() *client.BookingClient {
	return client.NewBookingClient(e.BaseURL)
}

// FutureDate is far enough ahead that every slot is still bookable.
func FutureDate(daysAhead int) string {
	return time.Now().AddDate(0, 0, daysAhead).Format("2006-01-02")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
