package dashboard

func applyOrderOverride(tiles []TileInstance, order []string) []TileInstance {
	if len(order) == 0 {
		return tiles
	}
	index := make(map[string]TileInstance, len(tiles))
	for _, tile := range tiles {
		index[tile.ID] = tile
	}
	result := make([]TileInstance, 0, len(tiles))
	seen := make(map[string]struct{}, len(order))
	for _, id := range order {
		if tile, ok := index[id]; ok {
			result = append(result, tile)
			seen[id] = struct{}{}
		}
	}
	for _, tile := range tiles {
		if _, ok := seen[tile.ID]; !ok {
			result = append(result, tile)
		}
	}
	return result
}

func applyHiddenFilter(tiles []TileInstance, hidden map[string]bool) []TileInstance {
	if len(hidden) == 0 {
		return tiles
	}
	result := make([]TileInstance, 0, len(tiles))
	for _, tile := range tiles {
		if !hidden[tile.ID] {
			result = append(result, tile)
		}
	}
	return result
}
