package testutil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ali-khaled-949/myChatApp/internal/api"
	"github.com/ali-khaled-949/myChatApp/internal/config"
	"github.com/ali-khaled-949/myChatApp/internal/domain"
	repoPostgres "github.com/ali-khaled-949/myChatApp/internal/repository/postgres"
	"github.com/ali-khaled-949/myChatApp/internal/service"
	"github.com/ali-khaled-949/myChatApp/internal/websocket"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_chat"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Session{},
	)
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"sessions",
		"users",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Fatalf("failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a config suitable for tests
func TestConfig() *config.Config {
	return &config.Config{
		Port:                   "0",
		Environment:            "test",
		SessionSecret:          "test-session-secret",
		SessionExpirationHours: 24,
	}
}

// TestServer wraps the full HTTP surface over a test database
type TestServer struct {
	Server   *httptest.Server
	DB       *TestDB
	Hub      *websocket.Hub
	Services *service.Services
	Config   *config.Config
}

// NewTestServer starts the router, hub, and services over a fresh test DB
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	cfg := TestConfig()
	repos := repoPostgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, cfg)

	hub := websocket.NewHub()
	go hub.Run()

	router := api.NewRouter(services, hub)
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		hub.Stop()
	})

	return &TestServer{
		Server:   server,
		DB:       testDB,
		Hub:      hub,
		Services: services,
		Config:   cfg,
	}
}

// URL returns an absolute URL for the given path
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}

// WSURL returns the websocket URL for the given path
func (ts *TestServer) WSURL(path string) string {
	return strings.Replace(ts.Server.URL, "http://", "ws://", 1) + path
}

// NoRedirectClient returns an HTTP client that surfaces redirects instead of
// following them, so tests can assert on Location headers.
func NoRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
