package user

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/datatypes"
)

var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UpsertProfile records the identity reported by the auth provider. It never
// touches the connection list of an existing user.
func (s *Service) UpsertProfile(ctx context.Context, userID, email, name string) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	profile := User{
		ID:               userID,
		DisplayCurrency:  DefaultDisplayCurrency,
		ConnectedUserIDs: datatypes.JSONSlice[string]{},
	}
	if email = strings.TrimSpace(email); email != "" {
		profile.Email = &email
	}
	if name = strings.TrimSpace(name); name != "" {
		profile.DisplayName = &name
	}

	return s.repo.UpsertProfile(ctx, &profile)
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) ListProfiles(ctx context.Context, userIDs []string) ([]User, error) {
	if len(userIDs) == 0 {
		return []User{}, nil
	}
	return s.repo.ListByIDs(ctx, userIDs)
}

func (s *Service) UpdateSettings(ctx context.Context, input UpdateSettingsInput) (*User, error) {
	var displayName, displayCurrency *string
	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name == "" {
			return nil, ErrInvalidDisplayName
		}
		displayName = &name
	}
	if input.DisplayCurrency != nil {
		currency, err := NormalizeCurrency(*input.DisplayCurrency)
		if err != nil {
			return nil, err
		}
		displayCurrency = &currency
	}

	if displayName != nil || displayCurrency != nil {
		if err := s.repo.UpdateSettings(ctx, input.UserID, displayName, displayCurrency); err != nil {
			return nil, err
		}
	}

	return s.repo.GetByID(ctx, input.UserID)
}

// NormalizeCurrency upper-cases a currency code and checks it is three letters.
func NormalizeCurrency(value string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(value))
	if !currencyCodeRegex.MatchString(code) {
		return "", ErrInvalidCurrency
	}
	return code, nil
}
