package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/DrowningToast/sairahut-it20-sub000/internal/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type PairService struct {
	db    *gorm.DB
	resin *ResinService
}

func NewPairService(db *gorm.DB, resin *ResinService) *PairService {
	return &PairService{db: db, resin: resin}
}

// Verses is the freshman's main page: who they are hunting and what they
// know so far.
type Verses struct {
	Pair           models.Pair        `json:"pair"`
	RevealedHints  []RevealedHintView `json:"revealed_hints"`
	ResinLeft      int                `json:"resin_left"`
	PasscodePoints int                `json:"passcode_points"`
	NextPrice      *int               `json:"next_price"`
}

func (s *PairService) GetPair(ctx context.Context, pairID uint) (*models.Pair, error) {
	var pair models.Pair
	err := s.db.WithContext(ctx).First(&pair, pairID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPairNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load pair: %w", err)
	}
	return &pair, nil
}

// GetPairByFreshman returns nil when the freshman has no pair yet.
func (s *PairService) GetPairByFreshman(ctx context.Context, freshmanID uint) (*models.Pair, error) {
	var pair models.Pair
	err := s.db.WithContext(ctx).Where("freshman_id = ?", freshmanID).First(&pair).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load pair: %w", err)
	}
	return &pair, nil
}

// GetPairsBySophomore returns an empty slice when the sophomore has no pair.
func (s *PairService) GetPairsBySophomore(ctx context.Context, sophomoreID uint) ([]models.Pair, error) {
	pairs := []models.Pair{}
	err := s.db.WithContext(ctx).
		Where("sophomore_id = ?", sophomoreID).
		Preload("RevealedHints", func(db *gorm.DB) *gorm.DB {
			return db.Order("reveal_index ASC")
		}).
		Order("id ASC").
		Find(&pairs).Error
	if err != nil {
		return nil, fmt.Errorf("load pairs: %w", err)
	}
	return pairs, nil
}

// Assign pairs a freshman with a sophomore. Pairs never change once made.
func (s *PairService) Assign(ctx context.Context, freshmanID, sophomoreID uint) (*models.Pair, error) {
	var pair models.Pair
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Freshman{}).Where("id = ?", freshmanID).Count(&count).Error; err != nil {
			return fmt.Errorf("load freshman: %w", err)
		}
		if count == 0 {
			return ErrUserNotFound
		}
		if err := tx.Model(&models.Sophomore{}).Where("id = ?", sophomoreID).Count(&count).Error; err != nil {
			return fmt.Errorf("load sophomore: %w", err)
		}
		if count == 0 {
			return ErrUserNotFound
		}

		if err := tx.Model(&models.Pair{}).Where("freshman_id = ?", freshmanID).Count(&count).Error; err != nil {
			return fmt.Errorf("load pair: %w", err)
		}
		if count > 0 {
			return ErrAlreadyPaired
		}

		pair = models.Pair{FreshmanID: freshmanID, SophomoreID: sophomoreID}
		if err := tx.Create(&pair).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyPaired
			}
			return fmt.Errorf("create pair: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// Verses loads the revealed hints and the resin balance side by side.
func (s *PairService) Verses(ctx context.Context, freshman *models.Freshman) (*Verses, error) {
	pair, err := s.GetPairByFreshman(ctx, freshman.ID)
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, ErrPairNotFound
	}

	v := &Verses{Pair: *pair}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hints, err := revealedHints(s.db.WithContext(gctx), pair.ID)
		if err != nil {
			return err
		}
		v.RevealedHints = hints
		return nil
	})
	g.Go(func() error {
		total, err := s.resin.GetTotalQuota(gctx, freshman.ID)
		if err != nil {
			return err
		}
		v.ResinLeft = total
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	v.PasscodePoints = freshman.PasscodePoints - SpentPoints(len(v.RevealedHints))
	if next, ok := NextPrice(len(v.RevealedHints)); ok {
		v.NextPrice = &next
	}
	return v, nil
}
