package dashboard

import "testing"

func chartTileDefinition() TileDefinition {
	for _, def := range DefaultTileDefinitions() {
		if def.Code == "st.tile.bar_chart" {
			return def
		}
	}
	return TileDefinition{}
}

func TestValidateAcceptsValidChartConfig(t *testing.T) {
	validator := NewJSONSchemaValidator()
	err := validator.Validate(chartTileDefinition(), map[string]any{
		"title":  "Energy",
		"x_axis": []any{"Q1", "Q2"},
		"series": []any{
			map[string]any{"name": "kWh", "data": []any{10.0, 12.5}},
		},
	})
	if err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRejectsMissingSeries(t *testing.T) {
	validator := NewJSONSchemaValidator()
	err := validator.Validate(chartTileDefinition(), map[string]any{"title": "No Data"})
	if err == nil {
		t.Fatalf("expected missing series rejected")
	}
}

func TestValidateRejectsBadCategoryEnum(t *testing.T) {
	validator := NewJSONSchemaValidator()
	var def TileDefinition
	for _, d := range DefaultTileDefinitions() {
		if d.Code == "st.tile.live_updates" {
			def = d
		}
	}
	err := validator.Validate(def, map[string]any{"category": "plastics"})
	if err == nil {
		t.Fatalf("expected enum violation rejected")
	}
}

func TestValidateAllowsEmptySchema(t *testing.T) {
	validator := NewJSONSchemaValidator()
	if err := validator.Validate(TileDefinition{Code: "st.tile.bare"}, map[string]any{"anything": 1}); err != nil {
		t.Fatalf("expected empty schema to allow any config, got %v", err)
	}
}

func TestValidateCachesCompiledSchemas(t *testing.T) {
	validator := NewJSONSchemaValidator()
	def := chartTileDefinition()
	cfg := map[string]any{
		"series": []any{map[string]any{"name": "s", "data": []any{1.0}}},
	}
	if err := validator.Validate(def, cfg); err != nil {
		t.Fatalf("first validate: %v", err)
	}
	if err := validator.Validate(def, cfg); err != nil {
		t.Fatalf("second validate: %v", err)
	}
	validator.mu.RLock()
	defer validator.mu.RUnlock()
	if len(validator.compiled) != 1 {
		t.Fatalf("expected one compiled schema, got %d", len(validator.compiled))
	}
}
