package sequence

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type seqRow struct {
	ID   string `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name"`
}

func (seqRow) TableName() string { return "seq_rows" }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:sequence_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&seqRow{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestNextStartsAtOne(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	id, err := Next(db, "seq_rows", "id")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if id != "001" {
		t.Fatalf("expected 001, got %s", id)
	}
}

func TestNextIsMonotonicAndGapTolerant(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	for _, id := range []string{"001", "002", "007"} {
		if err := db.Create(&seqRow{ID: id, Name: "x"}).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	id, err := Next(db, "seq_rows", "id")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if id != "008" {
		t.Fatalf("expected 008 after gap, got %s", id)
	}
}

func TestNextWidthGrowsBeyondPad(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	if err := db.Create(&seqRow{ID: "999", Name: "x"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	id, err := Next(db, "seq_rows", "id")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if id != "1000" {
		t.Fatalf("expected 1000, got %s", id)
	}
}

func TestNextIgnoresNonNumericIDs(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	for _, id := range []string{"003", "legacy-a"} {
		if err := db.Create(&seqRow{ID: id, Name: "x"}).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	id, err := Next(db, "seq_rows", "id")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if id != "004" {
		t.Fatalf("expected 004, got %s", id)
	}
}
