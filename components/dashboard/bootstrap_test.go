package dashboard

import (
	"context"
	"testing"
)

func TestRegisterPagesCreatesBuiltins(t *testing.T) {
	store := NewMemoryTileStore()
	if err := RegisterPages(context.Background(), store); err != nil {
		t.Fatalf("RegisterPages returned error: %v", err)
	}
	for _, code := range []string{"st.page.overview", "st.page.realestate", "st.page.strategy"} {
		page, ok := store.Page(code)
		if !ok {
			t.Fatalf("expected page %s registered", code)
		}
		if len(page.Tabs) == 0 {
			t.Fatalf("expected page %s to carry tabs", code)
		}
	}
}

func TestOverviewPageTabs(t *testing.T) {
	store := NewMemoryTileStore()
	_ = RegisterPages(context.Background(), store)
	page, _ := store.Page("st.page.overview")
	var categories []string
	for _, tab := range page.Tabs {
		categories = append(categories, tab.Category)
	}
	want := []string{"breeam", "energy", "carbon", "alerts"}
	if len(categories) != len(want) {
		t.Fatalf("expected %d tabs, got %v", len(want), categories)
	}
	for i, category := range want {
		if categories[i] != category {
			t.Fatalf("expected tab %d to be %s, got %s", i, category, categories[i])
		}
	}
}

func TestRegisterDefinitionsFillsStoreAndRegistry(t *testing.T) {
	store := NewMemoryTileStore()
	registry := NewRegistry()
	if err := RegisterDefinitions(context.Background(), store, registry); err != nil {
		t.Fatalf("RegisterDefinitions returned error: %v", err)
	}
	for _, code := range []string{"st.tile.trend_chart", "st.tile.trend_list", "st.tile.live_updates", "st.tile.framework_scores"} {
		if _, ok := registry.Definition(code); !ok {
			t.Fatalf("expected definition %s in registry", code)
		}
	}
}

func TestSeedLayoutAssignsStarterTiles(t *testing.T) {
	store := NewMemoryTileStore()
	registry := NewRegistry()
	_ = RegisterPages(context.Background(), store)
	_ = RegisterDefinitions(context.Background(), store, registry)
	service := NewService(Options{TileStore: store, Providers: registry})

	if err := SeedLayout(context.Background(), service); err != nil {
		t.Fatalf("SeedLayout returned error: %v", err)
	}

	layout, err := service.ConfigureLayout(context.Background(), ViewerContext{UserID: "seeder"})
	if err != nil {
		t.Fatalf("ConfigureLayout returned error: %v", err)
	}
	if len(layout.Pages["st.page.overview"]) == 0 {
		t.Fatalf("expected seeded tiles on overview page")
	}
	if len(layout.Pages["st.page.strategy"]) == 0 {
		t.Fatalf("expected seeded tiles on strategy page")
	}
}

func TestMemoryStoreAssignmentOrder(t *testing.T) {
	store := NewMemoryTileStore()
	ctx := context.Background()
	a, _ := store.CreateInstance(ctx, CreateTileInstanceInput{DefinitionID: "st.tile.trend_list"})
	b, _ := store.CreateInstance(ctx, CreateTileInstanceInput{DefinitionID: "st.tile.trend_list"})
	_ = store.AssignInstance(ctx, AssignTileInput{PageCode: "st.page.overview", InstanceID: a.ID})

	pos := 0
	_ = store.AssignInstance(ctx, AssignTileInput{PageCode: "st.page.overview", InstanceID: b.ID, Position: &pos})

	resolved, err := store.ResolvePage(ctx, ResolvePageInput{PageCode: "st.page.overview"})
	if err != nil {
		t.Fatalf("ResolvePage returned error: %v", err)
	}
	if len(resolved.Tiles) != 2 || resolved.Tiles[0].ID != b.ID {
		t.Fatalf("expected positioned tile first, got %#v", resolved.Tiles)
	}
}

func TestMemoryStoreDeleteRemovesAssignments(t *testing.T) {
	store := NewMemoryTileStore()
	ctx := context.Background()
	inst, _ := store.CreateInstance(ctx, CreateTileInstanceInput{DefinitionID: "st.tile.trend_list"})
	_ = store.AssignInstance(ctx, AssignTileInput{PageCode: "st.page.overview", InstanceID: inst.ID})
	if err := store.DeleteInstance(ctx, inst.ID); err != nil {
		t.Fatalf("DeleteInstance returned error: %v", err)
	}
	resolved, _ := store.ResolvePage(ctx, ResolvePageInput{PageCode: "st.page.overview"})
	if len(resolved.Tiles) != 0 {
		t.Fatalf("expected assignment removed, got %#v", resolved.Tiles)
	}
}

func TestMemoryStoreReorder(t *testing.T) {
	store := NewMemoryTileStore()
	ctx := context.Background()
	a, _ := store.CreateInstance(ctx, CreateTileInstanceInput{DefinitionID: "st.tile.trend_list"})
	b, _ := store.CreateInstance(ctx, CreateTileInstanceInput{DefinitionID: "st.tile.trend_list"})
	_ = store.AssignInstance(ctx, AssignTileInput{PageCode: "st.page.overview", InstanceID: a.ID})
	_ = store.AssignInstance(ctx, AssignTileInput{PageCode: "st.page.overview", InstanceID: b.ID})

	_ = store.ReorderPage(ctx, ReorderPageInput{PageCode: "st.page.overview", TileIDs: []string{b.ID, a.ID}})
	resolved, _ := store.ResolvePage(ctx, ResolvePageInput{PageCode: "st.page.overview"})
	if resolved.Tiles[0].ID != b.ID {
		t.Fatalf("expected reordered tiles, got %#v", resolved.Tiles)
	}
}
