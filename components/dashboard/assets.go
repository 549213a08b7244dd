package dashboard

import (
	"os"
	"strings"
)

const (
	// defaultChartAssetsHost is where rendered charts load the ECharts
	// runtime from when no override is configured.
	defaultChartAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"
	// envChartAssetsCDN overrides the assets host (e.g., to point at a
	// self-hosted bucket for air-gapped deployments).
	envChartAssetsCDN = "TRENDBOARD_ECHARTS_CDN"
)

// ChartAssetsHost returns the assets host for chart rendering, respecting
// TRENDBOARD_ECHARTS_CDN if set.
func ChartAssetsHost() string {
	if host := strings.TrimSpace(os.Getenv(envChartAssetsCDN)); host != "" {
		return ensureTrailingSlash(host)
	}
	return defaultChartAssetsHost
}

func ensureTrailingSlash(value string) string {
	if value == "" {
		return ""
	}
	if strings.HasSuffix(value, "/") {
		return value
	}
	return value + "/"
}
