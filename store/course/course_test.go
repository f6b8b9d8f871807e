package course

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"coursemarket/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCourseStore(t *testing.T) (core.ICourseStore, *db.DB) {
	database := db.MustOpen(db.Config{
		Dialect: "sqlite3",
		Host:    filepath.Join(t.TempDir(), "courses.db"),
	})
	t.Cleanup(func() { database.Close() })

	require.Nil(t, db.Migrate(database))

	return New(database), database
}

func TestCourseStore(t *testing.T) {
	ctx := context.Background()
	store, database := setupCourseStore(t)

	course := &core.Course{
		CourseID: "COURSE-001",
		Name:     "basic conversation",
		Price:    decimal.NewFromInt(10),
		IsActive: true,
		Creator:  "owner",
	}
	require.Nil(t, store.Create(ctx, database, course))
	assert.Equal(t, uint64(1), course.ID)

	found, err := store.Find(ctx, course.ID)
	require.Nil(t, err)
	assert.Equal(t, "COURSE-001", found.CourseID)
	assert.Equal(t, "10", found.Price.String())

	// a miss returns an empty record, not an error
	missing, err := store.Find(ctx, 42)
	require.Nil(t, err)
	assert.Equal(t, uint64(0), missing.ID)

	missing, err = store.FindByCourseID(ctx, "COURSE-404")
	require.Nil(t, err)
	assert.Equal(t, uint64(0), missing.ID)

	count, err := store.Count(ctx)
	require.Nil(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCourseStoreUpdate(t *testing.T) {
	ctx := context.Background()
	store, database := setupCourseStore(t)

	course := &core.Course{
		CourseID: "COURSE-001",
		Name:     "basic conversation",
		Price:    decimal.NewFromInt(10),
		IsActive: true,
	}
	require.Nil(t, store.Create(ctx, database, course))

	course.IsActive = false
	require.Nil(t, store.Update(ctx, database, course))

	found, err := store.Find(ctx, course.ID)
	require.Nil(t, err)
	assert.False(t, found.IsActive)

	// a stale copy loses the version race
	stale := &core.Course{ID: course.ID, CourseID: course.CourseID, Version: 0, IsActive: true}
	assert.Equal(t, db.ErrOptimisticLock, store.Update(ctx, database, stale))
}

func TestCourseCacheInvalidation(t *testing.T) {
	ctx := context.Background()
	store, database := setupCourseStore(t)
	cached := Cache(store, time.Minute)

	course := &core.Course{
		CourseID: "COURSE-001",
		Name:     "basic conversation",
		Price:    decimal.NewFromInt(10),
		IsActive: true,
	}
	require.Nil(t, cached.Create(ctx, database, course))

	// warm both keys
	found, err := cached.Find(ctx, course.ID)
	require.Nil(t, err)
	assert.True(t, found.IsActive)

	found, err = cached.FindByCourseID(ctx, "COURSE-001")
	require.Nil(t, err)
	assert.True(t, found.IsActive)

	found.IsActive = false
	require.Nil(t, cached.Update(ctx, database, found))

	// the update evicted both keys; reads see the new state
	found, err = cached.Find(ctx, course.ID)
	require.Nil(t, err)
	assert.False(t, found.IsActive)

	found, err = cached.FindByCourseID(ctx, "COURSE-001")
	require.Nil(t, err)
	assert.False(t, found.IsActive)
}

func TestCourseCacheMissNotCached(t *testing.T) {
	ctx := context.Background()
	store, database := setupCourseStore(t)
	cached := Cache(store, time.Minute)

	missing, err := cached.FindByCourseID(ctx, "COURSE-001")
	require.Nil(t, err)
	assert.Equal(t, uint64(0), missing.ID)

	course := &core.Course{
		CourseID: "COURSE-001",
		Name:     "basic conversation",
		Price:    decimal.NewFromInt(10),
		IsActive: true,
	}
	require.Nil(t, cached.Create(ctx, database, course))

	// the earlier miss was not cached, the new record is visible
	found, err := cached.FindByCourseID(ctx, "COURSE-001")
	require.Nil(t, err)
	assert.Equal(t, course.ID, found.ID)
}
