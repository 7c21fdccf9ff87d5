//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/alchemorsel/pantry/internal/infrastructure/config"
	gormrepo "github.com/alchemorsel/pantry/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/migrations"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/postgres"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/alchemorsel/pantry/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

func configFor(db *testutils.TestDatabase) *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{
			Driver:             config.DriverPostgres,
			Host:               db.Host,
			Port:               db.Port,
			Database:           db.Config.Database,
			Username:           db.Config.Username,
			Password:           db.Config.Password,
			SSLMode:            "disable",
			MaxOpenConns:       5,
			MaxIdleConns:       2,
			ConnMaxLifetime:    time.Minute,
			ConnMaxIdleTime:    time.Minute,
			ConnectTimeout:     10 * time.Second,
			LogLevel:           "silent",
			SlowQueryThreshold: time.Second,
		},
	}
}

type PostgresRecipeRepositorySuite struct {
	testutils.RecipeRepositoryContract
}

func TestPostgresRecipeRepository(t *testing.T) {
	testDB := testutils.SetupTestDatabase(t)

	cm, err := postgres.NewConnectionManager(context.Background(), configFor(testDB), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cm.Close() })

	require.NoError(t, cm.HealthCheck(context.Background()))

	s := &PostgresRecipeRepositorySuite{}
	s.NewRepository = func() outbound.RecipeRepository {
		require.NoError(t, testDB.TruncateRecipes())
		return gormrepo.NewRecipeRepository(cm.GetDB())
	}
	suite.Run(t, s)
}

func TestMigrations_UpIsIdempotent(t *testing.T) {
	testDB := testutils.SetupTestDatabase(t)

	db, err := migrations.Open(testDB.DSN)
	require.NoError(t, err)

	migrator, err := migrations.New(db, migrations.Options{DatabaseName: testDB.Config.Database}, zap.NewNop())
	require.NoError(t, err)
	defer migrator.Close()

	require.NoError(t, migrator.Up())

	version, dirty, err := migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	require.NoError(t, migrator.Down())
	version, _, err = migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}
