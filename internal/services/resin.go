package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/DrowningToast/sairahut-it20-sub000/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SpendAmount is the resin cost of one passcode redemption.
const SpendAmount = 5

const dayLayout = "2006-01-02"

type ResinService struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func NewResinService(db *gorm.DB, loc *time.Location) *ResinService {
	if loc == nil {
		loc = time.UTC
	}
	return &ResinService{db: db, loc: loc, now: time.Now}
}

// WithClock replaces the wall clock, for tests.
func (s *ResinService) WithClock(now func() time.Time) *ResinService {
	s.now = now
	return s
}

// Today is the current calendar day in the event time zone.
func (s *ResinService) Today() string {
	return s.now().In(s.loc).Format(dayLayout)
}

// EnsureTodayPool returns the freshman's pool for today, creating it with the
// default quota on the first call of the day.
func (s *ResinService) EnsureTodayPool(ctx context.Context, freshmanID uint) (*models.ResinPool, error) {
	day := s.Today()
	db := s.db.WithContext(ctx)

	var freshman models.Freshman
	if err := db.First(&freshman, freshmanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load freshman: %w", err)
	}

	pool := models.ResinPool{FreshmanID: freshmanID, Day: day, Quota: models.DefaultResinQuota}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "freshman_id"}, {Name: "day"}},
		DoNothing: true,
	}).Create(&pool).Error
	if err != nil {
		return nil, fmt.Errorf("create resin pool: %w", err)
	}

	if err := db.Where("freshman_id = ? AND day = ?", freshmanID, day).First(&pool).Error; err != nil {
		return nil, fmt.Errorf("load resin pool: %w", err)
	}

	if freshman.ActivePoolID == nil || *freshman.ActivePoolID != pool.ID {
		if err := db.Model(&models.Freshman{}).Where("id = ?", freshmanID).
			Update("active_pool_id", pool.ID).Error; err != nil {
			return nil, fmt.Errorf("set active pool: %w", err)
		}
	}
	return &pool, nil
}

// GetTotalQuota sums the quota left in every pool the freshman ever had.
func (s *ResinService) GetTotalQuota(ctx context.Context, freshmanID uint) (int, error) {
	return sumResin(s.db.WithContext(ctx), freshmanID)
}

func sumResin(tx *gorm.DB, freshmanID uint) (int, error) {
	var total int64
	err := tx.Model(&models.ResinPool{}).
		Where("freshman_id = ?", freshmanID).
		Select("COALESCE(SUM(quota), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum resin: %w", err)
	}
	return int(total), nil
}

// Spend takes amount from the active pool, or else from the most recently
// created pool that can cover it. Each attempt is one conditional UPDATE so
// concurrent spends never push a pool below zero.
func (s *ResinService) Spend(ctx context.Context, freshmanID uint, amount int) error {
	return spendResin(s.db.WithContext(ctx), freshmanID, amount)
}

func spendResin(tx *gorm.DB, freshmanID uint, amount int) error {
	var freshman models.Freshman
	if err := tx.Select("id", "active_pool_id").First(&freshman, freshmanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load freshman: %w", err)
	}

	if freshman.ActivePoolID != nil {
		res := tx.Model(&models.ResinPool{}).
			Where("id = ? AND freshman_id = ? AND quota >= ?", *freshman.ActivePoolID, freshmanID, amount).
			UpdateColumn("quota", gorm.Expr("quota - ?", amount))
		if res.Error != nil {
			return fmt.Errorf("spend resin: %w", res.Error)
		}
		if res.RowsAffected == 1 {
			return nil
		}
	}

	latest := tx.Model(&models.ResinPool{}).Select("id").
		Where("freshman_id = ? AND quota >= ?", freshmanID, amount).
		Order("day DESC, id DESC").
		Limit(1)
	res := tx.Model(&models.ResinPool{}).
		Where("id = (?) AND quota >= ?", latest, amount).
		UpdateColumn("quota", gorm.Expr("quota - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("spend resin: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientResin
	}
	return nil
}

// CreateTodayPoolsForAll ensures today's pool for every freshman. It keeps
// going past individual failures and returns the first one.
func (s *ResinService) CreateTodayPoolsForAll(ctx context.Context) (int, error) {
	var ids []uint
	if err := s.db.WithContext(ctx).Model(&models.Freshman{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("list freshmen: %w", err)
	}

	var firstErr error
	ensured := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return ensured, err
		}
		if _, err := s.EnsureTodayPool(ctx, id); err != nil {
			log.Printf("[cron] resin pool for freshman %d: %v", id, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		ensured++
	}
	return ensured, firstErr
}
