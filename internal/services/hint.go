package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/DrowningToast/sairahut-it20-sub000/internal/models"

	"gorm.io/gorm"
)

type HintService struct {
	db *gorm.DB
}

func NewHintService(db *gorm.DB) *HintService {
	return &HintService{db: db}
}

type HintInput struct {
	Slug    string `json:"slug"`
	Content string `json:"content"`
}

// RevealedHintView is a revealed hint as the freshman sees it.
type RevealedHintView struct {
	RevealIndex int    `json:"reveal_index"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Price       int    `json:"price"`
}

type RevealResult struct {
	Hint      RevealedHintView `json:"hint"`
	Revealed  int              `json:"revealed"`
	NextPrice *int             `json:"next_price"`
	Points    int              `json:"points_left"`
}

// Slugs returns the hint catalog in reveal order.
func (s *HintService) Slugs(ctx context.Context) ([]models.HintSlug, error) {
	return loadSlugs(s.db.WithContext(ctx))
}

func loadSlugs(db *gorm.DB) ([]models.HintSlug, error) {
	var slugs []models.HintSlug
	if err := db.Order("order_num ASC").Find(&slugs).Error; err != nil {
		return nil, fmt.Errorf("load hint slugs: %w", err)
	}
	return slugs, nil
}

func validateHints(hints []HintInput, slugs []models.HintSlug) (map[string]uint, error) {
	if len(hints) == 0 {
		return nil, ValidationError("At least one hint is required")
	}
	if len(hints) > MaxHints {
		return nil, ValidationError(fmt.Sprintf("At most %d hints are allowed", MaxHints))
	}

	known := make(map[string]uint, len(slugs))
	for _, slug := range slugs {
		known[slug.Slug] = slug.ID
	}

	seen := make(map[string]bool, len(hints))
	for _, h := range hints {
		if _, ok := known[h.Slug]; !ok {
			return nil, ValidationError(fmt.Sprintf("Unknown hint slug %q", h.Slug))
		}
		if seen[h.Slug] {
			return nil, ValidationError(fmt.Sprintf("Duplicate hint slug %q", h.Slug))
		}
		if strings.TrimSpace(h.Content) == "" {
			return nil, ValidationError(fmt.Sprintf("Hint %q must not be empty", h.Slug))
		}
		seen[h.Slug] = true
	}
	return known, nil
}

// SubmitHints stores the sophomore's hints and marks them ready. Only the
// first submission wins; the readiness flip is a conditional update inside
// the same transaction as the inserts.
func (s *HintService) SubmitHints(ctx context.Context, sophomoreID uint, hints []HintInput) ([]models.SophomoreHint, error) {
	var rows []models.SophomoreHint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slugs, err := loadSlugs(tx)
		if err != nil {
			return err
		}
		ids, err := validateHints(hints, slugs)
		if err != nil {
			return err
		}

		res := tx.Model(&models.Sophomore{}).
			Where("id = ? AND hints_ready = ?", sophomoreID, false).
			Update("hints_ready", true)
		if res.Error != nil {
			return fmt.Errorf("mark hints ready: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Sophomore{}).Where("id = ?", sophomoreID).Count(&count).Error; err != nil {
				return fmt.Errorf("load sophomore: %w", err)
			}
			if count == 0 {
				return ErrUserNotFound
			}
			return ErrHintsAlreadySet
		}

		rows = make([]models.SophomoreHint, 0, len(hints))
		for _, h := range hints {
			rows = append(rows, models.SophomoreHint{
				SophomoreID: sophomoreID,
				HintSlugID:  ids[h.Slug],
				Content:     strings.TrimSpace(h.Content),
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert hints: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetSophomoreHints returns the sophomore's own hints in catalog order.
func (s *HintService) GetSophomoreHints(ctx context.Context, sophomoreID uint) ([]models.SophomoreHint, error) {
	var hints []models.SophomoreHint
	err := s.db.WithContext(ctx).
		Preload("HintSlug").
		Where("sophomore_id = ?", sophomoreID).
		Find(&hints).Error
	if err != nil {
		return nil, fmt.Errorf("load hints: %w", err)
	}
	sort.Slice(hints, func(a, b int) bool {
		return hints[a].HintSlug.OrderNum < hints[b].HintSlug.OrderNum
	})
	return hints, nil
}

// GetRevealedHints returns what the pair's freshman has unlocked so far, with
// the sophomore's content for each revealed slug.
func (s *HintService) GetRevealedHints(ctx context.Context, pairID uint) ([]RevealedHintView, error) {
	return revealedHints(s.db.WithContext(ctx), pairID)
}

func revealedHints(db *gorm.DB, pairID uint) ([]RevealedHintView, error) {
	views := []RevealedHintView{}
	err := db.Table("revealed_hints AS r").
		Select("r.reveal_index, s.slug, s.title, COALESCE(h.content, '') AS content, r.price").
		Joins("JOIN hint_slugs s ON s.id = r.hint_slug_id").
		Joins("LEFT JOIN sophomore_hints h ON h.hint_slug_id = r.hint_slug_id AND h.sophomore_id = r.sophomore_id").
		Where("r.pair_id = ?", pairID).
		Order("r.reveal_index ASC").
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("load revealed hints: %w", err)
	}
	return views, nil
}

// Reveal discloses the next hint of the pair's sophomore. The freshman must
// have redeemed at least one passcode and have enough unspent passcode points
// for the next price. The unique (pair_id, reveal_index) index keeps the
// indices gapless under concurrent reveals.
func (s *HintService) Reveal(ctx context.Context, pairID uint) (*RevealResult, error) {
	var result RevealResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pair models.Pair
		if err := tx.Preload("Freshman").First(&pair, pairID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPairNotFound
			}
			return fmt.Errorf("load pair: %w", err)
		}

		var revealed int64
		if err := tx.Model(&models.RevealedHint{}).Where("pair_id = ?", pairID).Count(&revealed).Error; err != nil {
			return fmt.Errorf("count revealed hints: %w", err)
		}
		price, ok := NextPrice(int(revealed))
		if !ok {
			return ErrNoMoreHints
		}

		used, err := countUsedPasscodes(tx, pair.FreshmanID)
		if err != nil {
			return err
		}
		if used == 0 {
			return ErrCannotReveal
		}

		available := pair.Freshman.PasscodePoints - SpentPoints(int(revealed))
		if available < price {
			return ErrNotEnoughPoints
		}

		slugs, err := loadSlugs(tx)
		if err != nil {
			return err
		}
		if int(revealed) >= len(slugs) {
			return ErrNoMoreHints
		}
		slug := slugs[revealed]

		row := models.RevealedHint{
			PairID:      pairID,
			RevealIndex: int(revealed),
			HintSlugID:  slug.ID,
			SophomoreID: pair.SophomoreID,
			Price:       price,
		}
		if err := tx.Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrConflict
			}
			return fmt.Errorf("record revealed hint: %w", err)
		}

		var hint models.SophomoreHint
		content := ""
		if err := tx.Where("sophomore_id = ? AND hint_slug_id = ?", pair.SophomoreID, slug.ID).
			First(&hint).Error; err == nil {
			content = hint.Content
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("load hint: %w", err)
		}

		result = RevealResult{
			Hint: RevealedHintView{
				RevealIndex: row.RevealIndex,
				Slug:        slug.Slug,
				Title:       slug.Title,
				Content:     content,
				Price:       price,
			},
			Revealed: row.RevealIndex + 1,
			Points:   available - price,
		}
		if next, ok := NextPrice(result.Revealed); ok {
			result.NextPrice = &next
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
