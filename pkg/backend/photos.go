package backend

import (
	"context"
	"fmt"

	"github.com/platinummonkey/rococo/pkg/media"
)

// Photos converts between client data URLs and stored references.
// Empty values are kept empty.
type Photos struct {
	Store media.Store
}

// NewPhotos returns Photos over store, inline when store is nil
func NewPhotos(store media.Store) Photos {
	if store == nil {
		store = media.InlineStore{}
	}
	return Photos{Store: store}
}

// Save stores a data URL and returns its reference
func (p Photos) Save(ctx context.Context, dataURL string) (string, error) {
	if dataURL == "" {
		return "", nil
	}
	ref, err := p.Store.Save(ctx, dataURL)
	if err != nil {
		return "", fmt.Errorf("failed to save photo: %w", err)
	}
	return ref, nil
}

// Load resolves a stored reference to a data URL
func (p Photos) Load(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	dataURL, err := p.Store.Load(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("failed to load photo: %w", err)
	}
	return dataURL, nil
}

// LoadAll resolves the photo of every item in place
func LoadAll[T any](ctx context.Context, p Photos, items []T, photo func(*T) *string) error {
	for i := range items {
		field := photo(&items[i])
		dataURL, err := p.Load(ctx, *field)
		if err != nil {
			return err
		}
		*field = dataURL
	}
	return nil
}
