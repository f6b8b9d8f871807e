package role

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"coursemarket/core"
	eventstore "coursemarket/store/event"

	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRoleService(t *testing.T) core.IRoleService {
	database := db.MustOpen(db.Config{
		Dialect: "sqlite3",
		Host:    filepath.Join(t.TempDir(), "roles.db"),
	})
	t.Cleanup(func() { database.Close() })

	require.Nil(t, db.Migrate(database))

	return New(database, propertystore.New(database), eventstore.New(database), core.Genesis{
		Owner:  "owner",
		Oracle: "oracle",
	})
}

func TestGenesisRoles(t *testing.T) {
	ctx := context.Background()
	service := setupRoleService(t)

	owner, err := service.Owner(ctx)
	require.Nil(t, err)
	assert.Equal(t, "owner", owner)

	oracle, err := service.Oracle(ctx)
	require.Nil(t, err)
	assert.Equal(t, "oracle", oracle)
}

func TestTransferOracle(t *testing.T) {
	ctx := context.Background()
	service := setupRoleService(t)

	assert.Equal(t, core.ErrUnauthorized, service.TransferOracle(ctx, "mallory", "oracle-b"))
	assert.Equal(t, core.ErrInvalidRoleTarget, service.TransferOracle(ctx, "owner", ""))

	require.Nil(t, service.TransferOracle(ctx, "owner", "oracle-b"))

	oracle, err := service.Oracle(ctx)
	require.Nil(t, err)
	assert.Equal(t, "oracle-b", oracle)

	// owner keeps control of the oracle role after rotation
	require.Nil(t, service.TransferOracle(ctx, "owner", "oracle-c"))
}

type brokenEventStore struct {
	core.IEventStore
}

func (s brokenEventStore) Create(ctx context.Context, tx *db.DB, event *core.Event) error {
	return errors.New("disk I/O error")
}

func TestTransferSurvivesEventFailure(t *testing.T) {
	database := db.MustOpen(db.Config{
		Dialect: "sqlite3",
		Host:    filepath.Join(t.TempDir(), "roles.db"),
	})
	t.Cleanup(func() { database.Close() })

	require.Nil(t, db.Migrate(database))

	ctx := context.Background()
	service := New(database, propertystore.New(database), brokenEventStore{}, core.Genesis{
		Owner:  "owner",
		Oracle: "oracle",
	})

	// the swap committed before the trail write failed; reporting an error
	// here would claim a mutation that in fact happened did not
	require.Nil(t, service.TransferOracle(ctx, "owner", "oracle-b"))

	oracle, err := service.Oracle(ctx)
	require.Nil(t, err)
	assert.Equal(t, "oracle-b", oracle)
}

func TestTransferOwner(t *testing.T) {
	ctx := context.Background()
	service := setupRoleService(t)

	assert.Equal(t, core.ErrInvalidRoleTarget, service.TransferOwner(ctx, "owner", ""))

	require.Nil(t, service.TransferOwner(ctx, "owner", "owner-b"))

	owner, err := service.Owner(ctx)
	require.Nil(t, err)
	assert.Equal(t, "owner-b", owner)

	// the old owner can no longer administer roles
	assert.Equal(t, core.ErrUnauthorized, service.TransferOwner(ctx, "owner", "owner"))
	assert.Equal(t, core.ErrUnauthorized, service.TransferOracle(ctx, "owner", "oracle-b"))

	require.Nil(t, service.TransferOracle(ctx, "owner-b", "oracle-b"))
}
