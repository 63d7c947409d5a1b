package history

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"cardcommand/core/reconcile"
	"cardcommand/core/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var detectedAt = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

var snapshotColumns = []string{
	"product_id", "name", "set_name", "category", "status", "release_date",
	"estimated_resale", "msrp", "confidence", "source_url", "updated_at",
}

func TestCompareFields(t *testing.T) {
	prev := ReleaseSnapshot{
		ProductID:   "p1",
		Name:        "Prismatic Evolutions ETB",
		Status:      utils.Ptr("official"),
		ReleaseDate: utils.Ptr("2025-01-17"),
		MSRP:        utils.Ptr(49.99),
	}

	t.Run("NoChanges", func(t *testing.T) {
		assert.Empty(t, CompareFields(prev, prev))
	})

	t.Run("ChangedAndClearedFields", func(t *testing.T) {
		next := prev
		next.Status = utils.Ptr("released")
		next.MSRP = nil
		next.EstimatedResale = utils.Ptr(120.5)

		want := []FieldChange{
			{Field: "status", OldValue: utils.Ptr("official"), NewValue: utils.Ptr("released")},
			{Field: "estimatedResale", OldValue: nil, NewValue: utils.Ptr("120.5")},
			{Field: "msrp", OldValue: utils.Ptr("49.99"), NewValue: nil},
		}
		if diff := cmp.Diff(want, CompareFields(prev, next)); diff != "" {
			t.Errorf("CompareFields() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("UntrackedFieldsIgnored", func(t *testing.T) {
		next := prev
		next.SetName = "Other"
		next.SourceURL = utils.Ptr("https://example.com")
		assert.Empty(t, CompareFields(prev, next))
	})
}

func TestStore_Record(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)
	store.newID = func() string { return "ch-1" }

	products := []reconcile.ReleaseProduct{
		{ID: "p1", Name: "Prismatic Evolutions ETB", Category: "pokemon", SetName: "Prismatic Evolutions", MSRP: utils.Ptr(59.99), Status: utils.Ptr("official")},
		{ID: "p2", Name: "Aetherdrift Play Booster Box", Category: "mtg", SetName: "Aetherdrift"},
	}

	rows := sqlmock.NewRows(snapshotColumns).
		AddRow("p1", "Prismatic Evolutions ETB", "Prismatic Evolutions", "pokemon", "official", nil, nil, 49.99, nil, nil, detectedAt.Add(-time.Hour))
	mock.ExpectQuery("SELECT \\* FROM `release_snapshots` WHERE product_id IN").WillReturnRows(rows)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `release_changes`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `release_snapshots` .* ON DUPLICATE KEY UPDATE").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	changes, err := store.Record(context.Background(), products, detectedAt)
	require.NoError(t, err)

	want := []ReleaseChange{{
		ID:          "ch-1",
		ProductID:   "p1",
		ProductName: "Prismatic Evolutions ETB",
		SetName:     "Prismatic Evolutions",
		Category:    "pokemon",
		Field:       "msrp",
		OldValue:    utils.Ptr("49.99"),
		NewValue:    utils.Ptr("59.99"),
		DetectedAt:  detectedAt,
	}}
	if diff := cmp.Diff(want, changes); diff != "" {
		t.Errorf("Record() mismatch (-want +got):\n%s", diff)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Record_FirstSightingHasNoChanges(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery("SELECT \\* FROM `release_snapshots`").WillReturnRows(sqlmock.NewRows(snapshotColumns))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `release_snapshots`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	changes, err := store.Record(context.Background(), []reconcile.ReleaseProduct{{ID: "p9", Name: "New"}}, detectedAt)
	require.NoError(t, err)
	assert.Empty(t, changes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Record_Empty(t *testing.T) {
	db, mock := setupMockDB(t)

	changes, err := NewStore(db).Record(context.Background(), nil, detectedAt)
	require.NoError(t, err)
	assert.Nil(t, changes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Record_RollsBackOnFailure(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `release_snapshots`").WillReturnRows(sqlmock.NewRows(snapshotColumns))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `release_snapshots`").WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	_, err := NewStore(db).Record(context.Background(), []reconcile.ReleaseProduct{{ID: "p1"}}, detectedAt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record release history")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Changes(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "product_id", "product_name", "set_name", "category", "field", "old_value", "new_value", "detected_at", "source_url"}).
		AddRow("ch-2", "p1", "ETB", "Prismatic", "pokemon", "status", "official", "released", detectedAt, nil).
		AddRow("ch-1", "p1", "ETB", "Prismatic", "pokemon", "msrp", "49.99", "59.99", detectedAt.Add(-time.Hour), nil)
	mock.ExpectQuery("SELECT \\* FROM `release_changes` WHERE detected_at >= \\? ORDER BY detected_at DESC LIMIT").WillReturnRows(rows)

	changes, err := NewStore(db).Changes(context.Background(), 500, detectedAt.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, "ch-2", changes[0].ID)
	assert.Equal(t, "released", *changes[0].NewValue)
	assert.Nil(t, changes[0].SourceURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Changes_Error(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `release_changes`").WillReturnError(errors.New("gone"))

	_, err := NewStore(db).Changes(context.Background(), 0, time.Time{})
	assert.Error(t, err)
}

// columnRows lists every column of a model with the type from its gorm tag.
func columnRows(model interface{}) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	typ := reflect.TypeOf(model)
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("gorm")
		rows.AddRow(parseGormColumn(tag), parseGormType(tag), "YES", "", nil, "")
	}
	return rows
}

func TestCheckSchema_Matched(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SHOW COLUMNS FROM `release_snapshots`").WillReturnRows(columnRows(ReleaseSnapshot{}))
	mock.ExpectQuery("SHOW COLUMNS FROM `release_changes`").WillReturnRows(columnRows(ReleaseChange{}))

	report, err := CheckSchema(db)
	require.NoError(t, err)
	assert.True(t, report.Matched)
	assert.Equal(t, "ok", report.Tables["release_snapshots"].Status)
	assert.Equal(t, "ok", report.Tables["release_changes"].Status)
}

func TestCheckSchema_MissingAndMismatched(t *testing.T) {
	db, mock := setupMockDB(t)

	snapshots := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("product_id", "varchar(191)", "NO", "PRI", nil, "").
		AddRow("msrp", "decimal(10,2)", "YES", "", nil, "")
	mock.ExpectQuery("SHOW COLUMNS FROM `release_snapshots`").WillReturnRows(snapshots)
	mock.ExpectQuery("SHOW COLUMNS FROM `release_changes`").WillReturnError(errors.New("no such table"))

	report, err := CheckSchema(db)
	require.NoError(t, err)
	assert.False(t, report.Matched)

	tbl := report.Tables["release_snapshots"]
	assert.Equal(t, "error", tbl.Status)
	assert.Contains(t, tbl.MissingColumns, "name")
	assert.Contains(t, tbl.TypeMismatches, "msrp: expected double, got decimal(10,2)")
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "release_changes")
}

func TestCheckSchema_NilDB(t *testing.T) {
	report, err := CheckSchema(nil)
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestParseGormTags(t *testing.T) {
	assert.Equal(t, "product_id", parseGormColumn("column:product_id;type:varchar(191);primaryKey"))
	assert.Equal(t, "varchar(191)", parseGormType("column:product_id;type:varchar(191);primaryKey"))
	assert.Equal(t, "", parseGormType("column:id"))
}
