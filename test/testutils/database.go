// Package testutils provides common testing utilities and infrastructure setup
package testutils

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/migrations"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDatabase provides a migrated PostgreSQL instance with cleanup
type TestDatabase struct {
	Container testcontainers.Container
	GormDB    *gorm.DB
	DSN       string
	Host      string
	Port      int
	Config    DatabaseConfig
	t         *testing.T
}

// DatabaseConfig holds test database configuration
type DatabaseConfig struct {
	Image    string
	Database string
	Username string
	Password string
	Port     nat.Port
}

// DefaultDatabaseConfig returns the default test database configuration
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Image:    "postgres:15-alpine",
		Database: "pantry_test",
		Username: "test_user",
		Password: "test_password",
		Port:     "5432/tcp",
	}
}

func (cfg DatabaseConfig) dsn(host string, port nat.Port) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.Username, cfg.Password, host, port.Port(), cfg.Database)
}

// SetupTestDatabase starts PostgreSQL in a container and applies migrations
func SetupTestDatabase(t *testing.T) *TestDatabase {
	return SetupTestDatabaseWithConfig(t, DefaultDatabaseConfig())
}

// SetupTestDatabaseWithConfig creates a test database with custom configuration
func SetupTestDatabaseWithConfig(t *testing.T, cfg DatabaseConfig) *TestDatabase {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        cfg.Image,
				ExposedPorts: []string{string(cfg.Port)},
				Env: map[string]string{
					"POSTGRES_DB":       cfg.Database,
					"POSTGRES_USER":     cfg.Username,
					"POSTGRES_PASSWORD": cfg.Password,
				},
				WaitingFor: wait.ForAll(
					wait.ForLog("database system is ready to accept connections").
						WithOccurrence(2).
						WithStartupTimeout(60*time.Second),
					// the pgx driver is registered by the migrations package
					wait.ForSQL(cfg.Port, "pgx", cfg.dsn),
				),
			},
			Started: true,
		})
	require.NoError(t, err, "Failed to start postgres container")

	testDB := &TestDatabase{Container: container, Config: cfg, t: t}
	t.Cleanup(testDB.Cleanup)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, cfg.Port)
	require.NoError(t, err)

	testDB.Host = host
	testDB.Port = port.Int()
	testDB.DSN = cfg.dsn(host, port)

	err = migrations.Run(testDB.DSN, migrations.Options{DatabaseName: cfg.Database}, zap.NewNop())
	require.NoError(t, err, "Failed to run migrations")

	testDB.GormDB, err = gorm.Open(postgres.Open(testDB.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to create GORM connection")

	return testDB
}

// TruncateRecipes removes every recipe while preserving the schema
func (td *TestDatabase) TruncateRecipes() error {
	return td.GormDB.Exec("TRUNCATE TABLE recipes").Error
}

// Cleanup closes all connections and stops the container
func (td *TestDatabase) Cleanup() {
	if td.GormDB != nil {
		if sqlDB, err := td.GormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	if td.Container != nil {
		if err := td.Container.Terminate(context.Background()); err != nil {
			td.t.Logf("Failed to terminate postgres container: %v", err)
		}
	}
}
