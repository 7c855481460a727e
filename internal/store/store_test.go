package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

var openColumns = []string{"resource_id", "kind", "state", "occupant_id", "event_id", "day", "sim_time", "observed_at"}

func TestGormStore_UpdateOccupancy(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-10 * time.Minute)
	clock := Clock{Day: 0, SimTime: 3.0}

	testCases := []struct {
		name             string
		observations     []Observation
		mockExpectations func(mock sqlmock.Sqlmock)
		expectedFreed    []string
		expectedErr      bool
	}{
		{
			name: "Desk becomes available, should report it freed",
			observations: []Observation{
				{ResourceID: "desk-1", Kind: "desk", State: "AVAILABLE"},
			},
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "occupancy_opens"`)).
					WillReturnRows(sqlmock.NewRows(openColumns).
						AddRow("desk-1", "desk", "OCCUPIED", "worker-1", "", 0, 1.5, earlier))

				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "occupancy_histories"`)).
					WithArgs("desk-1", "desk", "OCCUPIED", "worker-1", "", 0, 1.5, 3.0, Any{}).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "occupancy_opens" WHERE "occupancy_opens"."resource_id" = $1`)).
					WithArgs("desk-1").
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
			expectedFreed: []string{"desk-1"},
		},
		{
			name: "Desk changes hands, should archive and update without notifying",
			observations: []Observation{
				{ResourceID: "desk-1", Kind: "desk", State: "OCCUPIED", OccupantID: "worker-2"},
			},
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "occupancy_opens"`)).
					WillReturnRows(sqlmock.NewRows(openColumns).
						AddRow("desk-1", "desk", "OCCUPIED", "worker-1", "", 0, 1.5, earlier))

				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "occupancy_histories"`)).
					WithArgs("desk-1", "desk", "OCCUPIED", "worker-1", "", 0, 1.5, 3.0, Any{}).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
				// Expect an UPDATE (via Save)
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE "occupancy_opens"`)).
					WithArgs("desk", "OCCUPIED", "worker-2", "", 0, 3.0, Any{}, "desk-1").
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
			expectedFreed: nil,
		},
		{
			name: "No change, should do nothing",
			observations: []Observation{
				{ResourceID: "space-1", Kind: "space", State: "OCCUPIED", EventID: "event-1"},
			},
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "occupancy_opens"`)).
					WillReturnRows(sqlmock.NewRows(openColumns).
						AddRow("space-1", "space", "OCCUPIED", "", "event-1", 0, 2.0, earlier))
				mock.ExpectBegin()
				// No database writes expected
				mock.ExpectCommit()
			},
			expectedFreed: nil,
		},
		{
			name: "Space gets occupied, should create an open record",
			observations: []Observation{
				{ResourceID: "space-2", Kind: "space", State: "OCCUPIED", EventID: "event-9"},
				{ResourceID: "desk-3", Kind: "desk", State: "AVAILABLE"},
			},
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "occupancy_opens"`)).
					WillReturnRows(sqlmock.NewRows(openColumns))

				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "occupancy_opens"`)).
					WithArgs("space-2", "space", "OCCUPIED", "", "event-9", 0, 3.0, Any{}).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
			expectedFreed: nil,
		},
		{
			name:         "Resource leaves the layout, should archive without notifying",
			observations: []Observation{},
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "occupancy_opens"`)).
					WillReturnRows(sqlmock.NewRows(openColumns).
						AddRow("desk-5", "desk", "ASSIGNED", "worker-5", "", 0, 0.5, earlier))

				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "occupancy_histories"`)).
					WithArgs("desk-5", "desk", "ASSIGNED", "worker-5", "", 0, 0.5, 3.0, Any{}).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "occupancy_opens"`)).
					WithArgs("desk-5").
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
			expectedFreed: nil,
		},
		{
			name: "Fetching open records fails",
			observations: []Observation{
				{ResourceID: "desk-1", Kind: "desk", State: "AVAILABLE"},
			},
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "occupancy_opens"`)).
					WillReturnError(errors.New("connection reset"))
			},
			expectedErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gormDB, mock := newTestDB(t)
			store := NewGormStore(gormDB)

			tc.mockExpectations(mock)

			freed, err := store.UpdateOccupancy(context.Background(), now, clock, tc.observations)

			if tc.expectedErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.ElementsMatch(t, tc.expectedFreed, freed)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormStore_ResetDay(t *testing.T) {
	gormDB, mock := newTestDB(t)
	store := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "occupancy_opens" WHERE day < $1`)).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "occupancy_histories" WHERE day < $1`)).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 12))
	mock.ExpectCommit()

	require.NoError(t, store.ResetDay(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Any is a helper for sqlmock to match any argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}
