package provider

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/schollz/progressbar/v3"

	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/marketdata/writer"
)

// PolygonAggsIterator is the part of the polygon aggregates iterator the client consumes.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient lists aggregates. The polygon REST client satisfies it through polygonAPI.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

type polygonAPI struct {
	client *polygon.Client
}

func (p *polygonAPI) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return p.client.ListAggs(ctx, params, options...)
}

type PolygonClient struct {
	apiClient   PolygonAPIClient
	writer      writer.MarketDataWriter
	progressOut io.Writer
}

func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey is required")
	}

	return &PolygonClient{
		apiClient:   &polygonAPI{client: polygon.New(apiKey)},
		writer:      nil,
		progressOut: os.Stderr,
	}, nil
}

// NewPolygonClientWithAPI creates a client around an existing aggregates API. The progress bar
// is not rendered.
func NewPolygonClientWithAPI(api PolygonAPIClient) *PolygonClient {
	return &PolygonClient{
		apiClient:   api,
		writer:      nil,
		progressOut: io.Discard,
	}
}

func (c *PolygonClient) ConfigWriter(w writer.MarketDataWriter) {
	c.writer = w
}

func (c *PolygonClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnDownloadProgress) (path string, err error) {
	if c.writer == nil {
		return "", fmt.Errorf("no writer configured for PolygonClient. Call ConfigWriter first")
	}

	if err = c.writer.Initialize(); err != nil {
		return "", fmt.Errorf("failed to initialize writer: %w", err)
	}

	processedCount := 0

	defer func() {
		if cerr := c.writer.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing writer: %w", cerr)
		}

		// a failed download with nothing written must not leave an empty file behind
		if err != nil && processedCount == 0 {
			os.Remove(c.writer.GetOutputPath())
		}
	}()

	totalDays := int(endDate.Sub(startDate).Hours()/24) + 1
	message := fmt.Sprintf("Downloading %s", ticker)

	bar := progressbar.NewOptions(totalDays,
		progressbar.OptionSetDescription(message),
		progressbar.OptionSetWriter(c.progressOut),
		progressbar.OptionShowCount(),
	)

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: multiplier,
		Timespan:   timespan,
		From:       models.Millis(startDate),
		To:         models.Millis(endDate),
	}.WithLimit(50000)

	iter := c.apiClient.ListAggs(ctx, params)

	for iter.Next() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("download cancelled: %w", ctxErr)
		}

		agg := iter.Item()
		barTime := time.Time(agg.Timestamp)

		if err = c.writer.Write(types.Bar{
			Symbol: ticker,
			Time:   barTime,
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		}); err != nil {
			return "", fmt.Errorf("failed to write data: %w", err)
		}

		processedCount++

		daysElapsed := min(max(int(barTime.Sub(startDate).Hours()/24), 0), totalDays)
		if onProgress != nil {
			onProgress(float64(daysElapsed), float64(totalDays), message)
		}

		if processedCount%1000 == 0 {
			bar.Set(daysElapsed)
		}
	}

	if iterErr := iter.Err(); iterErr != nil {
		return "", fmt.Errorf("error iterating polygon aggregates: %w", iterErr)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("download cancelled: %w", ctxErr)
	}

	bar.Finish()

	outputPath, err := c.writer.Finalize()
	if err != nil {
		return "", fmt.Errorf("failed to finalize writer: %w", err)
	}

	return outputPath, nil
}
