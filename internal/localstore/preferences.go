package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Preferences gives typed access to the well-known keys.
type Preferences struct {
	store Store
}

// NewPreferences wraps store.
func NewPreferences(store Store) *Preferences {
	return &Preferences{store: store}
}

// TravelData returns the last persisted payload. ok is false when nothing has
// been saved yet.
func (p *Preferences) TravelData(ctx context.Context) (raw []byte, ok bool, err error) {
	raw, err = p.store.Get(ctx, KeyTravelData)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

// SaveTravelData overwrites the persisted payload.
func (p *Preferences) SaveTravelData(ctx context.Context, raw []byte) error {
	return p.store.Put(ctx, KeyTravelData, raw)
}

// HasShownOnboarding reports the onboarding flag; unset reads as false.
func (p *Preferences) HasShownOnboarding(ctx context.Context) (bool, error) {
	raw, err := p.store.Get(ctx, KeyHasShownOnboarding)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var shown bool
	if err := json.Unmarshal(raw, &shown); err != nil {
		return false, fmt.Errorf("decode %s: %w", KeyHasShownOnboarding, err)
	}
	return shown, nil
}

// MarkOnboardingShown sets the onboarding flag.
func (p *Preferences) MarkOnboardingShown(ctx context.Context) error {
	return p.store.Put(ctx, KeyHasShownOnboarding, []byte("true"))
}
