package writer

import (
	"github.com/mkhv12/stk-advisor/internal/types"
)

// MarketDataWriter persists downloaded bars to a destination the datasource can read.
type MarketDataWriter interface {
	// Initialize sets up the writer, creating tables or files as needed.
	Initialize() error
	// Write persists a single bar.
	Write(bar types.Bar) error
	// Finalize commits pending bars and exports the output file.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}
