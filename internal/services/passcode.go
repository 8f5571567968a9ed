package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/DrowningToast/sairahut-it20-sub000/internal/models"

	"gorm.io/gorm"
)

const (
	PasscodeLength = 6
	// PasscodeReward is the number of passcode points one redemption earns.
	PasscodeReward = 5

	passcodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	maxCodeAttempts  = 10
)

type PasscodeService struct {
	db *gorm.DB
}

func NewPasscodeService(db *gorm.DB) *PasscodeService {
	return &PasscodeService{db: db}
}

// RedeemResult is what a freshman sees after a successful redemption.
type RedeemResult struct {
	Passcode       models.Passcode `json:"passcode"`
	SophomoreID    uint            `json:"sophomore_id"`
	PasscodePoints int             `json:"passcode_points"`
	ResinLeft      int             `json:"resin_left"`
}

func generatePasscode() (string, error) {
	b := make([]byte, PasscodeLength)
	size := big.NewInt(int64(len(passcodeAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		b[i] = passcodeAlphabet[n.Int64()]
	}
	return string(b), nil
}

func (s *PasscodeService) findActive(db *gorm.DB, sophomoreID uint) (*models.Passcode, error) {
	var passcode models.Passcode
	err := db.Where("owner_id = ? AND used_by_id IS NULL", sophomoreID).First(&passcode).Error
	if err != nil {
		return nil, err
	}
	return &passcode, nil
}

// GetOrCreate returns the sophomore's unused passcode, issuing a new one when
// the previous was redeemed. A concurrent issue for the same sophomore loses
// on the partial unique index and reads the winner instead.
func (s *PasscodeService) GetOrCreate(ctx context.Context, sophomoreID uint) (*models.Passcode, error) {
	db := s.db.WithContext(ctx)

	passcode, err := s.findActive(db, sophomoreID)
	if err == nil {
		return passcode, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load passcode: %w", err)
	}

	var sophomore models.Sophomore
	if err := db.Select("id").First(&sophomore, sophomoreID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load sophomore: %w", err)
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		content, err := generatePasscode()
		if err != nil {
			return nil, fmt.Errorf("generate passcode: %w", err)
		}

		created := models.Passcode{Content: content, OwnerID: sophomoreID}
		createErr := db.Create(&created).Error
		if createErr == nil {
			return &created, nil
		}
		if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("create passcode: %w", createErr)
		}

		// Either another request issued the active passcode first, or the
		// random content collided with an existing one.
		if winner, err := s.findActive(db, sophomoreID); err == nil {
			return winner, nil
		}
	}
	return nil, ErrConflict
}

// Redeem marks the passcode as used by freshmanID. The transition is
// terminal; a second redemption fails with ErrAlreadyUsed.
func (s *PasscodeService) Redeem(ctx context.Context, passcodeID, freshmanID uint) (*models.Passcode, error) {
	return redeemPasscode(s.db.WithContext(ctx), passcodeID, freshmanID)
}

func redeemPasscode(tx *gorm.DB, passcodeID, freshmanID uint) (*models.Passcode, error) {
	var passcode models.Passcode
	if err := tx.First(&passcode, passcodeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPasscodeNotFound
		}
		return nil, fmt.Errorf("load passcode: %w", err)
	}
	if passcode.Used() {
		return nil, ErrAlreadyUsed
	}

	now := time.Now()
	res := tx.Model(&models.Passcode{}).
		Where("id = ? AND used_by_id IS NULL", passcodeID).
		Updates(map[string]interface{}{
			"used_by_id": freshmanID,
			"used_at":    now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("redeem passcode: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrAlreadyUsed
	}

	passcode.UsedByID = &freshmanID
	passcode.UsedAt = &now
	return &passcode, nil
}

// RedeemCode is the freshman-facing exchange: it costs SpendAmount resin and
// earns PasscodeReward points. Everything happens in one transaction.
func (s *PasscodeService) RedeemCode(ctx context.Context, freshmanID uint, content string) (*RedeemResult, error) {
	var result RedeemResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var passcode models.Passcode
		if err := tx.Where("content = ?", content).First(&passcode).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPasscodeNotFound
			}
			return fmt.Errorf("load passcode: %w", err)
		}
		if passcode.Used() {
			return ErrAlreadyUsed
		}

		if err := spendResin(tx, freshmanID, SpendAmount); err != nil {
			return err
		}

		redeemed, err := redeemPasscode(tx, passcode.ID, freshmanID)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Freshman{}).Where("id = ?", freshmanID).
			UpdateColumn("passcode_points", gorm.Expr("passcode_points + ?", PasscodeReward)).Error; err != nil {
			return fmt.Errorf("add passcode points: %w", err)
		}

		var freshman models.Freshman
		if err := tx.Select("id", "passcode_points").First(&freshman, freshmanID).Error; err != nil {
			return fmt.Errorf("load freshman: %w", err)
		}

		resin, err := sumResin(tx, freshmanID)
		if err != nil {
			return err
		}

		result = RedeemResult{
			Passcode:       *redeemed,
			SophomoreID:    redeemed.OwnerID,
			PasscodePoints: freshman.PasscodePoints,
			ResinLeft:      resin,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CountUsedBy is the number of passcodes the freshman has redeemed.
func (s *PasscodeService) CountUsedBy(ctx context.Context, freshmanID uint) (int, error) {
	return countUsedPasscodes(s.db.WithContext(ctx), freshmanID)
}

func countUsedPasscodes(tx *gorm.DB, freshmanID uint) (int, error) {
	var count int64
	if err := tx.Model(&models.Passcode{}).Where("used_by_id = ?", freshmanID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count passcodes: %w", err)
	}
	return int(count), nil
}
