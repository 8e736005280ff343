package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const StorageKey = "mizan-font-settings"

var ErrInvalidSettings = errors.New("invalid font settings")

// ArabicFonts - font families the reader can switch between, "arabic" being the bundled default
var ArabicFonts = []string{"arabic", "Scheherazade New", "Cairo", "Noto Naskh Arabic"}

const (
	MinArabicFontSize  = 14
	MaxArabicFontSize  = 32
	MinEnglishFontSize = 12
	MaxEnglishFontSize = 24
)

type FontSettings struct {
	ArabicFontFamily string `json:"arabicFontFamily"`
	ArabicFontSize   int    `json:"arabicFontSize"`
	EnglishFontSize  int    `json:"englishFontSize"`
}

// FontSettingsPatch - A partial update. nil fields are left alone.
type FontSettingsPatch struct {
	ArabicFontFamily *string `json:"arabicFontFamily,omitempty"`
	ArabicFontSize   *int    `json:"arabicFontSize,omitempty"`
	EnglishFontSize  *int    `json:"englishFontSize,omitempty"`
}

func Defaults() FontSettings {
	return FontSettings{
		ArabicFontFamily: "arabic",
		ArabicFontSize:   20,
		EnglishFontSize:  16,
	}
}

func (f FontSettings) Validate() error {
	valid := false
	for _, font := range ArabicFonts {
		if font == f.ArabicFontFamily {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: unknown arabic font %q", ErrInvalidSettings, f.ArabicFontFamily)
	}
	if f.ArabicFontSize < MinArabicFontSize || f.ArabicFontSize > MaxArabicFontSize {
		return fmt.Errorf("%w: arabic font size must be between %d and %d", ErrInvalidSettings, MinArabicFontSize, MaxArabicFontSize)
	}
	if f.EnglishFontSize < MinEnglishFontSize || f.EnglishFontSize > MaxEnglishFontSize {
		return fmt.Errorf("%w: english font size must be between %d and %d", ErrInvalidSettings, MinEnglishFontSize, MaxEnglishFontSize)
	}
	return nil
}

func (f FontSettings) apply(p FontSettingsPatch) FontSettings {
	if p.ArabicFontFamily != nil {
		f.ArabicFontFamily = *p.ArabicFontFamily
	}
	if p.ArabicFontSize != nil {
		f.ArabicFontSize = *p.ArabicFontSize
	}
	if p.EnglishFontSize != nil {
		f.EnglishFontSize = *p.EnglishFontSize
	}
	return f
}

// Service - Font settings persisted in a Storage. Build one per process and share it.
type Service struct {
	storage Storage
	logger  *zap.Logger
	mu      sync.Mutex // serializes read-modify-write in Update
}

func NewService(storage Storage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{storage: storage, logger: logger}
}

// Get - Stored settings laid over the defaults. A missing or unreadable record gives the defaults.
func (s *Service) Get(ctx context.Context) (FontSettings, error) {
	settings := Defaults()
	raw, ok, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		return settings, err
	}
	if !ok {
		return settings, nil
	}

	// unmarshalling onto the defaults fills in whatever the stored record lacks
	if err := json.Unmarshal(raw, &settings); err != nil {
		s.logger.Warn("Stored font settings are unreadable, using defaults", zap.Error(err))
		return Defaults(), nil
	}
	if err := settings.Validate(); err != nil {
		s.logger.Warn("Stored font settings are invalid, using defaults", zap.Error(err))
		return Defaults(), nil
	}
	return settings, nil
}

// Update - Merge a partial update into the current settings and persist the result
func (s *Service) Update(ctx context.Context, patch FontSettingsPatch) (FontSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Get(ctx)
	if err != nil {
		return current, err
	}
	next := current.apply(patch)
	if err := next.Validate(); err != nil {
		return current, err
	}
	if err := s.save(ctx, next); err != nil {
		return current, err
	}
	return next, nil
}

// Reset - Back to defaults. The stored record is dropped so later default changes apply too.
func (s *Service) Reset(ctx context.Context) (FontSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(ctx, StorageKey); err != nil {
		return Defaults(), fmt.Errorf("resetting font settings: %w", err)
	}
	return Defaults(), nil
}

func (s *Service) save(ctx context.Context, settings FontSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("saving font settings: %w", err)
	}
	s.logger.Debug("Font settings saved", zap.Any("settings", settings))
	return nil
}
