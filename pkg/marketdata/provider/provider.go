package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/polygon-io/client-go/rest/models"

	"github.com/mkhv12/stk-advisor/pkg/marketdata/writer"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
)

type OnDownloadProgress = func(current float64, total float64, message string)

type Provider interface {
	// ConfigWriter configures the writer the downloaded bars are persisted with.
	ConfigWriter(writer writer.MarketDataWriter)
	// Download downloads the bars for the given ticker and date range and returns the path
	// of the written file. The context can be used to cancel the download.
	// example:
	// Download(ctx, "SCHD", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), 1, models.Day, onProgress)
	Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnDownloadProgress) (path string, err error)
}

// NewMarketDataProvider creates a new market data provider based on the provider type.
func NewMarketDataProvider(providerType ProviderType, config any) (Provider, error) {
	switch providerType {
	case ProviderPolygon:
		apiKey, ok := config.(string)
		if !ok {
			return nil, fmt.Errorf("polygon provider requires API key string config")
		}

		return NewPolygonClient(apiKey)
	default:
		return nil, fmt.Errorf("unsupported market data provider: %s", providerType)
	}
}
