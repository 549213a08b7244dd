package dashboard

import (
	"context"
	"errors"
	"fmt"
)

// RegisterPages ensures the built-in dashboard pages exist in the store.
func RegisterPages(ctx context.Context, store TileStore) error {
	if store == nil {
		return errMissingTileStore
	}
	for _, page := range DefaultPageDefinitions() {
		if _, err := store.EnsurePage(ctx, page); err != nil {
			return fmt.Errorf("register page %s: %w", page.Code, err)
		}
	}
	return nil
}

// RegisterDefinitions registers the built-in tile definitions in the store
// and, when given, the provider registry.
func RegisterDefinitions(ctx context.Context, store TileStore, registry ProviderRegistry) error {
	if store == nil {
		return errMissingTileStore
	}
	for _, def := range DefaultTileDefinitions() {
		if _, err := store.EnsureDefinition(ctx, def); err != nil {
			return fmt.Errorf("register definition %s: %w", def.Code, err)
		}
		if registry != nil {
			if err := registry.RegisterDefinition(def); err != nil {
				return fmt.Errorf("register definition in registry %s: %w", def.Code, err)
			}
		}
	}
	return nil
}

// SeedLayout creates the starter tile assignments.
func SeedLayout(ctx context.Context, service *Service) error {
	if service == nil {
		return errors.New("dashboard: service is required to seed layout")
	}
	var seedErr error
	for _, req := range DefaultSeedTiles() {
		if err := service.AddTile(ctx, req); err != nil {
			seedErr = errors.Join(seedErr, err)
		}
	}
	return seedErr
}
