package engine

import (
	"fmt"
	"path/filepath"
)

// getResultFolder returns the folder of one run: results/<start>_<end>/<runID> when the config
// limits the backtest period, results/<runID> otherwise. Open ends are written as "all".
func getResultFolder(b *BacktestEngineV1, runID string) string {
	if b.config.StartTime.IsNone() && b.config.EndTime.IsNone() {
		return filepath.Join(b.resultsFolder, runID)
	}

	startTimeStr := "all"
	endTimeStr := "all"

	if b.config.StartTime.IsSome() {
		startTimeStr = b.config.StartTime.Unwrap().Format("20060102")
	}

	if b.config.EndTime.IsSome() {
		endTimeStr = b.config.EndTime.Unwrap().Format("20060102")
	}

	return filepath.Join(b.resultsFolder, fmt.Sprintf("%s_%s", startTimeStr, endTimeStr), runID)
}
