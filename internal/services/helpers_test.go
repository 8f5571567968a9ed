package services

import (
	"context"
	"sync"
	"testing"

	"github.com/DrowningToast/sairahut-it20-sub000/internal/cohort"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/database"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/models"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/registry"

	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{Email: email, Name: email, Type: models.UserTypeUnknown}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func createFreshman(t *testing.T, db *gorm.DB, email string) *models.Freshman {
	t.Helper()
	user := createUser(t, db, email)
	freshman := models.Freshman{
		UserID:      user.ID,
		StudentID:   cohort.StudentID(email),
		FirstName:   "First",
		LastName:    "Last",
		Nickname:    "Nick",
		Branch:      "IT",
		FacebookURL: "https://facebook.com/" + cohort.StudentID(email),
	}
	if err := db.Create(&freshman).Error; err != nil {
		t.Fatalf("create freshman: %v", err)
	}
	return &freshman
}

func createSophomore(t *testing.T, db *gorm.DB, email string) *models.Sophomore {
	t.Helper()
	user := createUser(t, db, email)
	sophomore := models.Sophomore{
		UserID:    user.ID,
		StudentID: cohort.StudentID(email),
		Nickname:  "Senior",
		Branch:    "IT",
	}
	if err := db.Create(&sophomore).Error; err != nil {
		t.Fatalf("create sophomore: %v", err)
	}
	return &sophomore
}

func createPair(t *testing.T, db *gorm.DB, freshmanID, sophomoreID uint) *models.Pair {
	t.Helper()
	pair := models.Pair{FreshmanID: freshmanID, SophomoreID: sophomoreID}
	if err := db.Create(&pair).Error; err != nil {
		t.Fatalf("create pair: %v", err)
	}
	return &pair
}

func allHints() []HintInput {
	hints := make([]HintInput, 0, len(models.DefaultHintSlugs))
	for _, s := range models.DefaultHintSlugs {
		hints = append(hints, HintInput{Slug: s.Slug, Content: "about " + s.Slug})
	}
	return hints
}

// fakeRegistry keeps registry rows in memory keyed by table and student id.
type fakeRegistry struct {
	mu      sync.Mutex
	rows    map[string]map[string]registry.Record
	upserts int
	failErr error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{rows: make(map[string]map[string]registry.Record)}
}

func (f *fakeRegistry) put(table, studentID string, fields map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows[table] == nil {
		f.rows[table] = make(map[string]registry.Record)
	}
	fields[registry.StudentIDField] = studentID
	f.rows[table][studentID] = registry.Record{ID: "rec" + studentID, Fields: fields}
}

func (f *fakeRegistry) Find(_ context.Context, table, studentID string) (*registry.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	rec, ok := f.rows[table][studentID]
	if !ok {
		return nil, registry.ErrNotFound
	}
	return &rec, nil
}

func (f *fakeRegistry) Upsert(_ context.Context, table, studentID string, fields map[string]any) (*registry.Record, error) {
	f.mu.Lock()
	f.upserts++
	fail := f.failErr
	f.mu.Unlock()
	if fail != nil {
		return nil, fail
	}
	f.put(table, studentID, fields)
	return &registry.Record{ID: "rec" + studentID, Fields: fields}, nil
}

// failCreates makes every insert of the named model fail with err. The
// returned function swaps the error for later inserts.
func failCreates(t *testing.T, db *gorm.DB, model string, err error) func(error) {
	t.Helper()
	var mu sync.Mutex
	cb := func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Name == model {
			mu.Lock()
			defer mu.Unlock()
			tx.AddError(err)
		}
	}
	if regErr := db.Callback().Create().Before("gorm:create").Register("test:fail_"+model, cb); regErr != nil {
		t.Fatalf("register callback: %v", regErr)
	}
	return func(next error) {
		mu.Lock()
		defer mu.Unlock()
		err = next
	}
}
