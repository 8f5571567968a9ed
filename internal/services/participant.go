package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/DrowningToast/sairahut-it20-sub000/internal/cohort"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/models"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/registry"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Registry is the slice of the spreadsheet registry the participant store needs.
type Registry interface {
	Find(ctx context.Context, table, studentID string) (*registry.Record, error)
	Upsert(ctx context.Context, table, studentID string, fields map[string]any) (*registry.Record, error)
}

// Branches are the departments a participant can belong to.
var Branches = []string{"IT", "DSBA", "BIT", "AIT"}

type ParticipantService struct {
	db             *gorm.DB
	registry       Registry
	freshmanTable  string
	sophomoreTable string
}

func NewParticipantService(db *gorm.DB, reg Registry, freshmanTable, sophomoreTable string) *ParticipantService {
	return &ParticipantService{
		db:             db,
		registry:       reg,
		freshmanTable:  freshmanTable,
		sophomoreTable: sophomoreTable,
	}
}

type FreshmanDetails struct {
	FirstName    string
	LastName     string
	Nickname     string
	Branch       string
	Phone        string
	FacebookURL  string
	InstagramURL string
}

// Onboarding steps, as the page a participant should be sent to next.
const (
	StepRegister     = "/register"
	StepSetupHints   = "/hints/setup"
	StepUnauthorized = "/unauthorized"
)

// SignIn records a participant on each successful institutional sign-in.
func (s *ParticipantService) SignIn(ctx context.Context, email, name, image string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	db := s.db.WithContext(ctx)

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Email: email, Name: name, Image: image, Type: models.UserTypeUnknown}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("load user: %w", err)
	default:
		if user.Name != name || user.Image != image {
			if err := db.Model(&user).Updates(map[string]interface{}{"name": name, "image": image}).Error; err != nil {
				return nil, fmt.Errorf("update user: %w", err)
			}
		}
	}
	return s.GetMe(ctx, user.ID)
}

// GetMe loads the user with both kinds of participant details.
func (s *ParticipantService) GetMe(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Freshman").
		Preload("Sophomore").
		First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

func validBranch(branch string) bool {
	for _, b := range Branches {
		if b == branch {
			return true
		}
	}
	return false
}

// RegisterFreshman stores the freshman and mirrors the row to the registry
// while the local transaction commits. Nothing is mirrored when the local
// insert fails.
func (s *ParticipantService) RegisterFreshman(ctx context.Context, userID uint, d FreshmanDetails) (*models.Freshman, error) {
	if strings.TrimSpace(d.FacebookURL) == "" && strings.TrimSpace(d.InstagramURL) == "" {
		return nil, ErrMissingSocial
	}
	if !validBranch(d.Branch) {
		return nil, ValidationError(fmt.Sprintf("Unknown branch %q", d.Branch))
	}

	user, err := s.GetMe(ctx, userID)
	if err != nil {
		return nil, err
	}
	c, err := cohort.Classify(user.Email)
	if err != nil || c != cohort.Freshman {
		return nil, ErrUnauthorized
	}
	if user.Ready() {
		return nil, ErrAlreadyRegistered
	}

	studentID := cohort.StudentID(user.Email)
	fields := map[string]any{
		"email":         user.Email,
		"first_name":    d.FirstName,
		"last_name":     d.LastName,
		"nickname":      d.Nickname,
		"branch":        d.Branch,
		"phone":         d.Phone,
		"facebook_url":  d.FacebookURL,
		"instagram_url": d.InstagramURL,
	}
	snapshot, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode registry fields: %w", err)
	}

	freshman := models.Freshman{
		UserID:         user.ID,
		StudentID:      studentID,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Nickname:       d.Nickname,
		Branch:         d.Branch,
		Phone:          d.Phone,
		FacebookURL:    d.FacebookURL,
		InstagramURL:   d.InstagramURL,
		RegistryFields: datatypes.JSON(snapshot),
	}

	inserted := make(chan bool, 1)
	var g errgroup.Group
	g.Go(func() error {
		sent := false
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&freshman).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrAlreadyRegistered
				}
				return fmt.Errorf("create freshman: %w", err)
			}
			sent = true
			inserted <- true
			return tx.Model(&models.User{}).Where("id = ?", user.ID).
				Update("type", models.UserTypeFreshman).Error
		})
		if !sent {
			inserted <- false
		}
		return err
	})
	g.Go(func() error {
		if !<-inserted {
			return nil
		}
		// The registry is a secondary record; a failed mirror is logged and
		// does not undo the local registration.
		if _, err := s.registry.Upsert(ctx, s.freshmanTable, studentID, fields); err != nil {
			log.Printf("registry: freshman %s not mirrored: %v", studentID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &freshman, nil
}

// RegisterSophomoreFromRegistry creates the sophomore from the registry row
// of their student id. Calling it again returns the existing record.
func (s *ParticipantService) RegisterSophomoreFromRegistry(ctx context.Context, userID uint) (*models.Sophomore, error) {
	user, err := s.GetMe(ctx, userID)
	if err != nil {
		return nil, err
	}
	c, err := cohort.Classify(user.Email)
	if err != nil || !cohort.IsSophomoreOrOlder(c) {
		return nil, ErrUnauthorized
	}
	if user.Sophomore != nil {
		return user.Sophomore, nil
	}

	studentID := cohort.StudentID(user.Email)
	rec, err := s.registry.Find(ctx, s.sophomoreTable, studentID)
	if errors.Is(err, registry.ErrNotFound) {
		return nil, ErrRegistryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("registry lookup: %w", err)
	}

	snapshot, err := json.Marshal(rec.Fields)
	if err != nil {
		return nil, fmt.Errorf("encode registry fields: %w", err)
	}
	sophomore := models.Sophomore{
		UserID:         user.ID,
		StudentID:      studentID,
		FirstName:      rec.String("first_name"),
		LastName:       rec.String("last_name"),
		Nickname:       rec.String("nickname"),
		Branch:         rec.String("branch"),
		FacebookURL:    rec.String("facebook_url"),
		InstagramURL:   rec.String("instagram_url"),
		RegistryFields: datatypes.JSON(snapshot),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sophomore).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("type", models.UserTypeSophomore).Error
	})
	if err != nil {
		// A concurrent registration may have won; return its record.
		var existing models.Sophomore
		if lookupErr := s.db.WithContext(ctx).Where("user_id = ?", user.ID).First(&existing).Error; lookupErr == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("create sophomore: %w", err)
	}
	return &sophomore, nil
}

// Onboarding returns the page the user must visit next, or "" when they are
// fully set up. Malformed or unsupported identifiers get an error code.
func Onboarding(user *models.User) string {
	c, err := cohort.Classify(user.Email)
	if err != nil {
		code := "malformed_identifier"
		if errors.Is(err, cohort.ErrUnsupportedGeneration) {
			code = "unsupported_generation"
		}
		return StepUnauthorized + "?code=" + code
	}

	switch c {
	case cohort.Freshman:
		if user.Freshman == nil {
			return StepRegister
		}
		return ""
	case cohort.Sophomore, cohort.Senior:
		if user.Sophomore == nil {
			return StepRegister
		}
		if !user.Sophomore.HintsReady {
			return StepSetupHints
		}
		return ""
	case cohort.Unknown:
		return StepUnauthorized + "?code=unknown_cohort"
	}
	return StepUnauthorized + "?code=unknown_cohort"
}
