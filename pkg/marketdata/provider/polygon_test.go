package provider

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/suite"

	"github.com/mkhv12/stk-advisor/internal/types"
)

type mockWriter struct {
	initialized   bool
	initializeErr error
	writeErr      error
	finalizeErr   error
	closeErr      error
	outputPath    string
	writtenData   []types.Bar
	closeCalls    int
}

func (m *mockWriter) Initialize() error {
	if m.initializeErr != nil {
		return m.initializeErr
	}
	m.initialized = true

	return nil
}

func (m *mockWriter) Write(bar types.Bar) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writtenData = append(m.writtenData, bar)

	return nil
}

func (m *mockWriter) Finalize() (string, error) {
	if m.finalizeErr != nil {
		return "", m.finalizeErr
	}

	return m.outputPath, nil
}

func (m *mockWriter) Close() error {
	m.closeCalls++

	return m.closeErr
}

func (m *mockWriter) GetOutputPath() string {
	return m.outputPath
}

type mockPolygonAPIClient struct {
	iterator PolygonAggsIterator
	params   *models.ListAggsParams
}

func (m *mockPolygonAPIClient) ListAggs(_ context.Context, params *models.ListAggsParams, _ ...models.RequestOption) PolygonAggsIterator {
	m.params = params

	return m.iterator
}

type mockPolygonIterator struct {
	aggs  []models.Agg
	index int
	err   error
}

func (m *mockPolygonIterator) Next() bool {
	if m.index < len(m.aggs) {
		m.index++

		return true
	}

	return false
}

func (m *mockPolygonIterator) Item() models.Agg {
	if m.index > 0 && m.index <= len(m.aggs) {
		return m.aggs[m.index-1]
	}

	return models.Agg{}
}

func (m *mockPolygonIterator) Err() error {
	return m.err
}

type PolygonClientTestSuite struct {
	suite.Suite
	startDate time.Time
	endDate   time.Time
}

func TestPolygonClientSuite(t *testing.T) {
	suite.Run(t, new(PolygonClientTestSuite))
}

func (suite *PolygonClientTestSuite) SetupTest() {
	suite.startDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.endDate = time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
}

func dailyAggs(start time.Time, closes ...float64) []models.Agg {
	aggs := make([]models.Agg, len(closes))
	for i, c := range closes {
		aggs[i] = models.Agg{
			Timestamp: models.Millis(start.AddDate(0, 0, i)),
			Open:      c - 0.5,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1_000_000,
		}
	}

	return aggs
}

func (suite *PolygonClientTestSuite) tempOutput() string {
	tmpFile, err := os.CreateTemp("", "polygon_test_*.parquet")
	suite.Require().NoError(err)
	tmpFile.Close()

	return tmpFile.Name()
}

func (suite *PolygonClientTestSuite) download(ctx context.Context, api PolygonAPIClient, w *mockWriter) (string, error) {
	client := NewPolygonClientWithAPI(api)
	client.ConfigWriter(w)

	return client.Download(ctx, "SCHD", suite.startDate, suite.endDate, 1, models.Day, nil)
}

func (suite *PolygonClientTestSuite) TestNewPolygonClient() {
	client, err := NewPolygonClient("test-api-key")
	suite.Require().NoError(err)

	polygonClient, ok := client.(*PolygonClient)
	suite.Require().True(ok)
	suite.NotNil(polygonClient.apiClient)
	suite.Nil(polygonClient.writer)
}

func (suite *PolygonClientTestSuite) TestNewPolygonClientEmptyApiKey() {
	client, err := NewPolygonClient("")
	suite.Error(err)
	suite.Nil(client)
	suite.Contains(err.Error(), "apiKey is required")
}

func (suite *PolygonClientTestSuite) TestNewMarketDataProvider() {
	p, err := NewMarketDataProvider(ProviderPolygon, "key")
	suite.NoError(err)
	suite.NotNil(p)

	_, err = NewMarketDataProvider(ProviderPolygon, 42)
	suite.Error(err)

	_, err = NewMarketDataProvider(ProviderType("binance"), nil)
	suite.Error(err)
	suite.Contains(err.Error(), "unsupported market data provider")
}

func (suite *PolygonClientTestSuite) TestDownloadWithoutWriter() {
	client := NewPolygonClientWithAPI(&mockPolygonAPIClient{})

	_, err := client.Download(context.Background(), "SCHD", suite.startDate, suite.endDate, 1, models.Day, nil)
	suite.Error(err)
	suite.Contains(err.Error(), "no writer configured")
}

func (suite *PolygonClientTestSuite) TestDownloadWriterInitializeError() {
	w := &mockWriter{initializeErr: errors.New("initialization failed")}

	_, err := suite.download(context.Background(), &mockPolygonAPIClient{iterator: &mockPolygonIterator{}}, w)
	suite.Error(err)
	suite.Contains(err.Error(), "failed to initialize writer")
}

func (suite *PolygonClientTestSuite) TestDownloadSuccess() {
	api := &mockPolygonAPIClient{iterator: &mockPolygonIterator{aggs: dailyAggs(suite.startDate, 27.1, 27.4, 27.2)}}
	w := &mockWriter{outputPath: "/tmp/schd.parquet"}

	path, err := suite.download(context.Background(), api, w)
	suite.Require().NoError(err)
	suite.Equal("/tmp/schd.parquet", path)
	suite.True(w.initialized)
	suite.Equal(1, w.closeCalls)
	suite.Require().Len(w.writtenData, 3)

	first := w.writtenData[0]
	suite.Equal("SCHD", first.Symbol)
	suite.True(first.Time.Equal(suite.startDate))
	suite.InDelta(26.6, first.Open, 1e-9)
	suite.InDelta(28.1, first.High, 1e-9)
	suite.InDelta(26.1, first.Low, 1e-9)
	suite.InDelta(27.1, first.Close, 1e-9)
	suite.InDelta(1_000_000, first.Volume, 1e-9)

	suite.Require().NotNil(api.params)
	suite.Equal("SCHD", api.params.Ticker)
	suite.Equal(models.Day, api.params.Timespan)
	suite.Equal(1, api.params.Multiplier)
}

func (suite *PolygonClientTestSuite) TestDownloadProgress() {
	api := &mockPolygonAPIClient{iterator: &mockPolygonIterator{aggs: dailyAggs(suite.startDate, 10, 11, 12, 13)}}
	client := NewPolygonClientWithAPI(api)
	client.ConfigWriter(&mockWriter{outputPath: "/tmp/p.parquet"})

	var currents []float64
	var total float64
	_, err := client.Download(context.Background(), "SCHD", suite.startDate, suite.endDate, 1, models.Day,
		func(current float64, t float64, message string) {
			currents = append(currents, current)
			total = t
			suite.Equal("Downloading SCHD", message)
		})
	suite.Require().NoError(err)
	suite.Equal([]float64{0, 1, 2, 3}, currents)
	suite.Equal(11.0, total)
}

func (suite *PolygonClientTestSuite) TestDownloadEmptyAggs() {
	w := &mockWriter{outputPath: "/tmp/empty.parquet"}

	path, err := suite.download(context.Background(), &mockPolygonAPIClient{iterator: &mockPolygonIterator{}}, w)
	suite.NoError(err)
	suite.Equal("/tmp/empty.parquet", path)
	suite.Empty(w.writtenData)
}

func (suite *PolygonClientTestSuite) TestDownloadIteratorErrorDeletesFileWhenNoData() {
	tmpPath := suite.tempOutput()
	api := &mockPolygonAPIClient{iterator: &mockPolygonIterator{err: errors.New("API rate limit exceeded")}}

	_, err := suite.download(context.Background(), api, &mockWriter{outputPath: tmpPath})
	suite.Error(err)
	suite.Contains(err.Error(), "error iterating polygon aggregates")
	suite.Contains(err.Error(), "API rate limit exceeded")

	_, statErr := os.Stat(tmpPath)
	suite.True(os.IsNotExist(statErr))
}

func (suite *PolygonClientTestSuite) TestDownloadWriteErrorDeletesFileWhenNoData() {
	tmpPath := suite.tempOutput()
	api := &mockPolygonAPIClient{iterator: &mockPolygonIterator{aggs: dailyAggs(suite.startDate, 10)}}

	_, err := suite.download(context.Background(), api, &mockWriter{outputPath: tmpPath, writeErr: errors.New("disk full")})
	suite.Error(err)
	suite.Contains(err.Error(), "failed to write data")

	_, statErr := os.Stat(tmpPath)
	suite.True(os.IsNotExist(statErr))
}

func (suite *PolygonClientTestSuite) TestDownloadFinalizeErrorKeepsFileWithData() {
	tmpPath := suite.tempOutput()
	defer os.Remove(tmpPath)
	api := &mockPolygonAPIClient{iterator: &mockPolygonIterator{aggs: dailyAggs(suite.startDate, 10)}}

	_, err := suite.download(context.Background(), api, &mockWriter{outputPath: tmpPath, finalizeErr: errors.New("finalize failed")})
	suite.Error(err)
	suite.Contains(err.Error(), "failed to finalize writer")

	_, statErr := os.Stat(tmpPath)
	suite.NoError(statErr)
}

func (suite *PolygonClientTestSuite) TestDownloadCloseError() {
	api := &mockPolygonAPIClient{iterator: &mockPolygonIterator{aggs: dailyAggs(suite.startDate, 10)}}

	_, err := suite.download(context.Background(), api, &mockWriter{outputPath: "/tmp/c.parquet", closeErr: errors.New("close failed")})
	suite.Error(err)
	suite.Contains(err.Error(), "error closing writer")
}

func (suite *PolygonClientTestSuite) TestDownloadCancellationCleansUpFile() {
	tmpPath := suite.tempOutput()
	api := &mockPolygonAPIClient{iterator: &mockPolygonIterator{aggs: dailyAggs(suite.startDate, 10, 11)}}
	w := &mockWriter{outputPath: tmpPath}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := suite.download(ctx, api, w)
	suite.Error(err)
	suite.ErrorIs(err, context.Canceled)
	suite.Empty(w.writtenData)

	_, statErr := os.Stat(tmpPath)
	suite.True(os.IsNotExist(statErr))
}
