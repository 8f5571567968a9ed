package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DrowningToast/sairahut-it20-sub000/internal/models"

	"gorm.io/gorm"
)

func TestGeneratePasscode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generatePasscode()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != PasscodeLength {
			t.Fatalf("len(%q) = %d", code, len(code))
		}
		for _, r := range code {
			if !strings.ContainsRune(passcodeAlphabet, r) {
				t.Fatalf("code %q has %q outside the alphabet", code, r)
			}
		}
	}
}

func TestGetOrCreateReturnsActivePasscode(t *testing.T) {
	db := newTestDB(t)
	sophomore := createSophomore(t, db, "20070001@it.kmitl.ac.th")
	svc := NewPasscodeService(db)
	ctx := context.Background()

	first, err := svc.GetOrCreate(ctx, sophomore.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.GetOrCreate(ctx, sophomore.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if first.ID != second.ID || first.Content != second.Content {
		t.Errorf("second call issued %+v, want %+v", second, first)
	}

	var active int64
	db.Model(&models.Passcode{}).Where("owner_id = ? AND used_by_id IS NULL", sophomore.ID).Count(&active)
	if active != 1 {
		t.Errorf("active passcodes = %d, want 1", active)
	}
}

func TestGetOrCreateUnknownSophomore(t *testing.T) {
	db := newTestDB(t)
	if _, err := NewPasscodeService(db).GetOrCreate(context.Background(), 42); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestGetOrCreateInsertErrors(t *testing.T) {
	db := newTestDB(t)
	sophomore := createSophomore(t, db, "20070001@it.kmitl.ac.th")
	svc := NewPasscodeService(db)
	ctx := context.Background()

	storeErr := errors.New("read-only file system")
	setErr := failCreates(t, db, "Passcode", storeErr)

	_, err := svc.GetOrCreate(ctx, sophomore.ID)
	if !errors.Is(err, storeErr) || KindOf(err) != "" {
		t.Fatalf("err = %v, want the store error", err)
	}

	// Every attempt colliding without a winner to read back is a conflict.
	setErr(gorm.ErrDuplicatedKey)
	if _, err := svc.GetOrCreate(ctx, sophomore.ID); !errors.Is(err, ErrConflict) {
		t.Errorf("collision err = %v, want ErrConflict", err)
	}
}

func TestRedeemTwice(t *testing.T) {
	db := newTestDB(t)
	sophomore := createSophomore(t, db, "20070001@it.kmitl.ac.th")
	freshman := createFreshman(t, db, "21070001@it.kmitl.ac.th")
	svc := NewPasscodeService(db)
	ctx := context.Background()

	passcode, err := svc.GetOrCreate(ctx, sophomore.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if passcode.UsedByID != nil {
		t.Fatalf("new passcode already used by %d", *passcode.UsedByID)
	}

	redeemed, err := svc.Redeem(ctx, passcode.ID, freshman.ID)
	if err != nil {
		t.Fatalf("first redeem: %v", err)
	}
	if redeemed.UsedByID == nil || *redeemed.UsedByID != freshman.ID {
		t.Fatalf("used by = %v, want %d", redeemed.UsedByID, freshman.ID)
	}

	if _, err := svc.Redeem(ctx, passcode.ID, freshman.ID); !errors.Is(err, ErrAlreadyUsed) {
		t.Errorf("second redeem err = %v, want ErrAlreadyUsed", err)
	}
	if _, err := svc.Redeem(ctx, passcode.ID+100, freshman.ID); !errors.Is(err, ErrPasscodeNotFound) {
		t.Errorf("missing passcode err = %v, want ErrPasscodeNotFound", err)
	}

	next, err := svc.GetOrCreate(ctx, sophomore.ID)
	if err != nil {
		t.Fatalf("reissue: %v", err)
	}
	if next.ID == passcode.ID {
		t.Error("a used passcode must be replaced by a new one")
	}
}

func TestRedeemCodeSpendsResinAndEarnsPoints(t *testing.T) {
	db := newTestDB(t)
	sophomore := createSophomore(t, db, "20070001@it.kmitl.ac.th")
	freshman := createFreshman(t, db, "21070001@it.kmitl.ac.th")
	ctx := context.Background()

	resin := NewResinService(db, time.UTC)
	if _, err := resin.EnsureTodayPool(ctx, freshman.ID); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	svc := NewPasscodeService(db)
	passcode, _ := svc.GetOrCreate(ctx, sophomore.ID)

	result, err := svc.RedeemCode(ctx, freshman.ID, passcode.Content)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if result.PasscodePoints != PasscodeReward {
		t.Errorf("points = %d, want %d", result.PasscodePoints, PasscodeReward)
	}
	if result.ResinLeft != models.DefaultResinQuota-SpendAmount {
		t.Errorf("resin = %d, want %d", result.ResinLeft, models.DefaultResinQuota-SpendAmount)
	}
	if result.SophomoreID != sophomore.ID {
		t.Errorf("sophomore = %d, want %d", result.SophomoreID, sophomore.ID)
	}

	used, _ := svc.CountUsedBy(ctx, freshman.ID)
	if used != 1 {
		t.Errorf("used = %d, want 1", used)
	}

	if _, err := svc.RedeemCode(ctx, freshman.ID, passcode.Content); !errors.Is(err, ErrAlreadyUsed) {
		t.Errorf("second redeem err = %v, want ErrAlreadyUsed", err)
	}
	if _, err := svc.RedeemCode(ctx, freshman.ID, "ZZZZZZ"); !errors.Is(err, ErrPasscodeNotFound) {
		t.Errorf("unknown code err = %v, want ErrPasscodeNotFound", err)
	}
}

func TestRedeemCodeWithoutResinRollsBack(t *testing.T) {
	db := newTestDB(t)
	sophomore := createSophomore(t, db, "20070001@it.kmitl.ac.th")
	freshman := createFreshman(t, db, "21070001@it.kmitl.ac.th")
	ctx := context.Background()

	svc := NewPasscodeService(db)
	passcode, _ := svc.GetOrCreate(ctx, sophomore.ID)

	if _, err := svc.RedeemCode(ctx, freshman.ID, passcode.Content); !errors.Is(err, ErrInsufficientResin) {
		t.Fatalf("err = %v, want ErrInsufficientResin", err)
	}

	var reloaded models.Passcode
	db.First(&reloaded, passcode.ID)
	if reloaded.Used() {
		t.Error("passcode must stay unused when the redemption fails")
	}
	var f models.Freshman
	db.First(&f, freshman.ID)
	if f.PasscodePoints != 0 {
		t.Errorf("points = %d, want 0", f.PasscodePoints)
	}
}
