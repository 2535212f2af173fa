package preference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xpanvictor/linguavox/pkg/Logger"
)

var ErrInvalidClientID = errors.New("client id is required")

// ThemePreference is the only state the demo keeps between visits.
type ThemePreference struct {
	DarkMode bool `json:"darkMode" example:"true"`
}

// Store persists theme preferences per client; a missing entry is not an error.
type Store interface {
	Get(ctx context.Context, clientID string) (ThemePreference, bool, error)
	Put(ctx context.Context, clientID string, pref ThemePreference) error
}

type PreferenceService interface {
	Theme(ctx context.Context, clientID string) (ThemePreference, error)
	SetTheme(ctx context.Context, clientID string, pref ThemePreference) error
}

type preferenceService struct {
	store  Store
	logger *Logger.Logger
}

func New(store Store, logger *Logger.Logger) PreferenceService {
	return &preferenceService{store: store, logger: logger.Named("preference")}
}

// Theme returns the stored preference, light mode when nothing was saved.
func (s *preferenceService) Theme(ctx context.Context, clientID string) (ThemePreference, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return ThemePreference{}, ErrInvalidClientID
	}
	pref, _, err := s.store.Get(ctx, clientID)
	if err != nil {
		return ThemePreference{}, fmt.Errorf("load theme for %s: %w", clientID, err)
	}
	return pref, nil
}

func (s *preferenceService) SetTheme(ctx context.Context, clientID string, pref ThemePreference) error {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return ErrInvalidClientID
	}
	if err := s.store.Put(ctx, clientID, pref); err != nil {
		return fmt.Errorf("save theme for %s: %w", clientID, err)
	}
	s.logger.Debugf("theme for %s set to dark=%t", clientID, pref.DarkMode)
	return nil
}
