package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/mkhv12/stk-advisor/internal/app"
	"github.com/mkhv12/stk-advisor/pkg/marketdata"
)

// downloadAction downloads the bars of every ticker into one parquet file per ticker.
func downloadAction(ctx context.Context, cmd *cli.Command) error {
	log, err := app.LoggerFromCommand(cmd)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	interval := marketdata.Timespan(cmd.String("interval"))
	if !interval.IsValid() {
		return fmt.Errorf("unsupported interval %q", interval)
	}

	apiKey := cmd.String("api-key")
	if apiKey == "" {
		apiKey = os.Getenv("POLYGON_API_KEY")
	}

	client, err := marketdata.NewClient(marketdata.ClientConfig{
		ProviderType:  marketdata.ProviderType(cmd.String("provider")),
		WriterType:    marketdata.WriterDuckDB,
		DataPath:      cmd.String("data"),
		PolygonApiKey: apiKey,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to create market data client: %w", err)
	}

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	startDate := cmd.Timestamp("start")
	endDate := cmd.Timestamp("end")

	for _, ticker := range app.NormalizeSymbols(cmd.StringSlice("ticker")) {
		log.Info("Starting download",
			zap.String("ticker", ticker),
			zap.Time("start", startDate),
			zap.Time("end", endDate),
			zap.String("interval", string(interval)),
		)

		path, err := client.Download(ctx, marketdata.DownloadParams{
			Ticker:     ticker,
			StartDate:  startDate,
			EndDate:    endDate,
			Multiplier: interval.Multiplier(),
			Timespan:   interval.Timespan(),
		})
		if err != nil {
			return fmt.Errorf("download of %s failed: %w", ticker, err)
		}

		fmt.Fprintf(out, "%s -> %s\n", ticker, path)
	}

	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "download",
		Usage: "Download historical bars into parquet files",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "ticker",
				Aliases:  []string{"t"},
				Usage:    "Ticker symbols, repeated or comma separated",
				Required: true,
			},
			&cli.TimestampFlag{
				Name:    "start",
				Aliases: []string{"s"},
				Usage:   "Start date in `YYYY-MM-DD` format",
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02", time.RFC3339},
				},
				Required: true,
			},
			&cli.TimestampFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
				Value:   time.Now(),
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02", time.RFC3339},
				},
			},
			&cli.StringFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Bar interval (1m, 5m, 15m, 30m, 1h, 4h, 1d, 1w, 1M)",
				Value:   string(marketdata.TimespanOneDay),
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Data provider to use (%s)", marketdata.ProviderPolygon),
				Value:   string(marketdata.ProviderPolygon),
			},
			&cli.StringFlag{
				Name:  "api-key",
				Usage: "Polygon.io API key, defaults to $POLYGON_API_KEY",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the data output directory",
				Value:   "data",
			},
			app.LogLevelFlag(),
		},
		Action: downloadAction,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
