package database

import (
	"testing"

	"github.com/DrowningToast/sairahut-it20-sub000/internal/config"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/models"
)

func TestOpenMemorySeedsCatalog(t *testing.T) {
	db, err := OpenMemory(t.Name())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := SeedHintSlugs(db); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var slugs []models.HintSlug
	if err := db.Order("order_num ASC").Find(&slugs).Error; err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(slugs) != len(models.DefaultHintSlugs) {
		t.Fatalf("got %d slugs, want %d", len(slugs), len(models.DefaultHintSlugs))
	}
	for i, s := range slugs {
		if s.OrderNum != i || s.Slug != models.DefaultHintSlugs[i].Slug {
			t.Errorf("slug %d = %+v", i, s)
		}
	}
}

func TestConnectUnknownDriver(t *testing.T) {
	if _, err := Connect(&config.Config{DBDriver: "oracle"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
