package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"officesim-backend/internal/geom"
	"officesim-backend/internal/model"
	"officesim-backend/internal/office"
)

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, gormDB.AutoMigrate(
		&model.Zone{},
		&model.Desk{},
		&model.Space{},
		&model.OccupancyOpen{},
		&model.OccupancyHistory{},
		&model.PushSubscription{},
	))
	return NewGormStore(gormDB)
}

func testLayout() office.Layout {
	return office.Layout{
		Width:    200,
		Height:   200,
		Entrance: geom.Rect{Min: geom.Pt(90, 180), Max: geom.Pt(110, 195)},
		Desks: []office.DeskSpec{
			{ID: "desk-a", Name: "North-1", Center: geom.Pt(20, 20), Width: 10, Height: 10},
			{ID: "desk-b", Name: "North-2", Center: geom.Pt(40, 20), Width: 10, Height: 10},
			{ID: "desk-c", Name: "south 1", Center: geom.Pt(20, 60), Width: 10, Height: 10},
			{ID: "desk-d", Name: "  ", Center: geom.Pt(40, 60), Width: 10, Height: 10},
		},
		Spaces: []office.SpaceSpec{
			{ID: "space-a", Name: "Aurora", Center: geom.Pt(150, 50), Width: 40, Height: 30},
		},
	}
}

func TestGormStore_UpsertLayout(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, s.UpsertLayout(ctx, testLayout()))

	var zones []model.Zone
	require.NoError(t, s.DB().Order("name").Find(&zones).Error)
	names := make([]string, len(zones))
	for i, z := range zones {
		names[i] = z.Name
	}
	assert.Equal(t, []string{"North", "South", "Unzoned"}, names)

	var desk model.Desk
	require.NoError(t, s.DB().Preload("Zone").First(&desk, "id = ?", "desk-c").Error)
	assert.Equal(t, "South", desk.Zone.Name)
	assert.Equal(t, 1, desk.Seq)
	assert.Equal(t, 20.0, desk.X)

	// A second plan drops desks and the space and moves a desk.
	next := testLayout()
	next.Desks = next.Desks[:2]
	next.Desks[1].Center = geom.Pt(60, 20)
	next.Spaces = nil
	require.NoError(t, s.UpsertLayout(ctx, next))

	var count int64
	s.DB().Model(&model.Desk{}).Count(&count)
	assert.Equal(t, int64(2), count)
	s.DB().Model(&model.Space{}).Count(&count)
	assert.Equal(t, int64(0), count)
	require.NoError(t, s.DB().First(&desk, "id = ?", "desk-b").Error)
	assert.Equal(t, 60.0, desk.X)
}

func TestGormStore_OccupancyLifecycle(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	freed, err := s.UpdateOccupancy(ctx, now, Clock{Day: 0, SimTime: 1}, []Observation{
		{ResourceID: "desk-a", Kind: model.KindDesk, State: "OCCUPIED", OccupantID: "worker-1"},
		{ResourceID: "desk-b", Kind: model.KindDesk, State: "AVAILABLE"},
	})
	require.NoError(t, err)
	assert.Empty(t, freed)

	open, err := s.OpenOccupancies(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "worker-1", open[0].OccupantID)

	freed, err = s.UpdateOccupancy(ctx, now.Add(time.Second), Clock{Day: 0, SimTime: 4}, []Observation{
		{ResourceID: "desk-a", Kind: model.KindDesk, State: "AVAILABLE"},
		{ResourceID: "desk-b", Kind: model.KindDesk, State: "AVAILABLE"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"desk-a"}, freed)

	hist, err := s.History(ctx, "desk-a", 0)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, 1.0, hist[0].PeriodStart)
	assert.Equal(t, 4.0, hist[0].PeriodEnd)
	assert.Equal(t, "worker-1", hist[0].OccupantID)

	_, err = s.UpdateOccupancy(ctx, now, Clock{Day: 0, SimTime: 5}, []Observation{
		{ResourceID: "desk-b", Kind: model.KindDesk, State: "OCCUPIED", OccupantID: "worker-2"},
	})
	require.NoError(t, err)

	require.NoError(t, s.ResetDay(ctx, 1))
	open, err = s.OpenOccupancies(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)
	hist, err = s.History(ctx, "desk-a", 0)
	require.NoError(t, err)
	assert.Empty(t, hist)
}
