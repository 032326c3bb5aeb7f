//go:build integration

package repository_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/cartograph/internal/models"
	"github.com/UnknownOlympus/cartograph/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestRepository_Integration(t *testing.T) {
	ctx := t.Context()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("atlas"),
		postgres.WithUsername("atlas"),
		postgres.WithPassword("atlas"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := repository.NewDatabase(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, repository.Migrate(ctx, pool))
	// Applying twice is a no-op.
	require.NoError(t, repository.Migrate(ctx, pool))

	_, err = pool.Exec(ctx, `INSERT INTO tasks (address) VALUES ('100 Main St'), ('8.8.8.8'), ('')`)
	require.NoError(t, err)

	repo := repository.NewRepository(pool, slog.Default())

	tasks, err := repo.FetchTasksForGeocoding(ctx, 10)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "100 Main St", tasks[0].Address)

	addr := models.Address{
		ProvidedBy:  "arcgis_list",
		Coordinates: models.Coordinates{Latitude: 39.78, Longitude: -89.65},
		StreetName:  models.OptionalString("Main St"),
		AdminLevels: []models.AdminLevel{{Name: "IL", Level: 1}},
	}
	require.NoError(t, repo.UpdateTaskAddress(ctx, tasks[0].ID, addr))
	require.NoError(t, repo.MarkUnresolvable(ctx, tasks[1].ID, "ip address"))

	var (
		streetName  string
		postalCode  *string
		adminLevels string
	)
	err = pool.QueryRow(ctx,
		`SELECT street_name, postal_code, admin_levels::text FROM tasks WHERE task_id = $1`, tasks[0].ID,
	).Scan(&streetName, &postalCode, &adminLevels)
	require.NoError(t, err)
	assert.Equal(t, "Main St", streetName)
	assert.Nil(t, postalCode)
	assert.JSONEq(t, `[{"name":"IL","level":1}]`, adminLevels)

	remaining, err := repo.FetchTasksForGeocoding(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
