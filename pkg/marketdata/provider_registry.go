package marketdata

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
)

// ProviderInfo contains metadata about a market data provider.
type ProviderInfo struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	RequiresAuth bool   `json:"requiresAuth"`
}

var providerRegistry = map[ProviderType]ProviderInfo{
	ProviderPolygon: {
		Name:         string(ProviderPolygon),
		DisplayName:  "Polygon.io",
		Description:  "US stock market data provider with historical OHLCV aggregates",
		RequiresAuth: true,
	},
}

// GetSupportedProviders returns the names of all supported providers in sorted order.
func GetSupportedProviders() []string {
	providers := lo.Map(lo.Keys(providerRegistry), func(p ProviderType, _ int) string { return string(p) })
	slices.Sort(providers)

	return providers
}

// GetProviderInfo returns metadata for a specific provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, fmt.Errorf("unsupported provider: %s", providerName)
	}

	return info, nil
}

// GetDownloadConfigSchema returns the JSON schema of a provider's download configuration.
func GetDownloadConfigSchema(providerName string) (string, error) {
	switch ProviderType(providerName) {
	case ProviderPolygon:
		r := new(jsonschema.Reflector)
		r.DoNotReference = true

		//nolint:exhaustruct // Empty struct is intentional for schema generation
		data, err := json.Marshal(r.Reflect(PolygonDownloadConfig{}))
		if err != nil {
			return "", err
		}

		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported provider: %s", providerName)
	}
}

// ParseDownloadConfig parses a JSON configuration for the given provider and returns the
// download parameters together with the client configuration writing into dataPath.
func ParseDownloadConfig(providerName string, jsonConfig string, dataPath string) (DownloadParams, ClientConfig, error) {
	switch ProviderType(providerName) {
	case ProviderPolygon:
		config, err := ParsePolygonConfig(jsonConfig)
		if err != nil {
			return DownloadParams{}, ClientConfig{}, err
		}

		params, err := config.ToDownloadParams()
		if err != nil {
			return DownloadParams{}, ClientConfig{}, err
		}

		return params, config.ToClientConfig(dataPath), nil
	default:
		return DownloadParams{}, ClientConfig{}, fmt.Errorf("unsupported provider: %s", providerName)
	}
}
