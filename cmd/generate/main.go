package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/mkhv12/stk-advisor/internal/app"
	enginev1 "github.com/mkhv12/stk-advisor/internal/backtest/engine/engine_v1"
	"github.com/mkhv12/stk-advisor/internal/backtest/engine/engine_v1/datasource"
	"github.com/mkhv12/stk-advisor/internal/optimizer"
	"github.com/mkhv12/stk-advisor/mocks"
	"github.com/mkhv12/stk-advisor/pkg/marketdata"
)

const (
	engineSchemaName       = "backtest-engine-v1-config.json"
	engineSampleName       = "backtest-engine-v1-config.yaml"
	optimizerSampleName    = "optimizer-config.yaml"
	downloadSchemaTemplate = "download-%s-config.json"
)

func validatePaths(schemaPath, sampleConfigPath string) error {
	if schemaPath == "" {
		return fmt.Errorf("schema path cannot be empty")
	}

	if sampleConfigPath == "" {
		return fmt.Errorf("sample config path cannot be empty")
	}

	return nil
}

func validateSchemaName(schemaName string) error {
	if schemaName == "" {
		return fmt.Errorf("schema name cannot be empty")
	}

	if !strings.HasSuffix(schemaName, ".json") {
		return fmt.Errorf("schema name %q must have .json extension", schemaName)
	}

	return nil
}

func getSchemaReference(schemaName string) string {
	return "# yaml-language-server: $schema=" + schemaName + "\n"
}

func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

// generateSchemaFile writes the JSON schema of the engine configuration.
func generateSchemaFile(config enginev1.BacktestEngineV1Config, schemaPath string) error {
	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	return writeFile(schemaPath, []byte(schemaJSON))
}

// generateSampleConfig writes a sample engine configuration pointing at schemaName.
// An existing file is left untouched.
func generateSampleConfig(config enginev1.BacktestEngineV1Config, samplePath string, schemaName string) error {
	if fileExists(samplePath) {
		return nil
	}

	yamlBytes, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal sample config to yaml: %w", err)
	}

	return writeFile(samplePath, append([]byte(getSchemaReference(schemaName)), yamlBytes...))
}

// generateOptimizerConfig writes the default weight search configuration unless the file exists.
func generateOptimizerConfig(samplePath string) error {
	if fileExists(samplePath) {
		return nil
	}

	yamlBytes, err := yamlv3.Marshal(optimizer.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal optimizer config to yaml: %w", err)
	}

	return writeFile(samplePath, yamlBytes)
}

// generateDownloadSchemas writes one download configuration schema per supported provider.
func generateDownloadSchemas(outputDir string) ([]string, error) {
	paths := []string{}

	for _, provider := range marketdata.GetSupportedProviders() {
		schema, err := marketdata.GetDownloadConfigSchema(provider)
		if err != nil {
			return nil, fmt.Errorf("failed to generate %s download schema: %w", provider, err)
		}

		path := filepath.Join(outputDir, fmt.Sprintf(downloadSchemaTemplate, provider))
		if err := writeFile(path, []byte(schema)); err != nil {
			return nil, err
		}

		paths = append(paths, path)
	}

	return paths, nil
}

// generateMockData writes synthetic daily bars for symbols into one parquet file.
func generateMockData(path string, symbols []string, count int, seed int64) error {
	generatorConfig := mocks.DefaultConfig()
	generatorConfig.Count = count

	bars := mocks.NewDataGenerator(seed).GenerateMultiSymbol(symbols, generatorConfig)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return datasource.WriteParquet(path, bars)
}

func generateAction(_ context.Context, cmd *cli.Command) error {
	outputDir := cmd.String("output")
	config := enginev1.EmptyConfig()

	schemaPath := filepath.Join(outputDir, engineSchemaName)
	samplePath := filepath.Join(outputDir, engineSampleName)

	if err := validatePaths(schemaPath, samplePath); err != nil {
		return err
	}

	if err := validateSchemaName(engineSchemaName); err != nil {
		return err
	}

	if err := generateSchemaFile(config, schemaPath); err != nil {
		return err
	}

	log.Printf("Schema successfully generated at %s", schemaPath)

	if err := generateSampleConfig(config, samplePath, engineSchemaName); err != nil {
		return err
	}

	optimizerPath := filepath.Join(outputDir, optimizerSampleName)
	if err := generateOptimizerConfig(optimizerPath); err != nil {
		return err
	}

	downloadSchemas, err := generateDownloadSchemas(outputDir)
	if err != nil {
		return err
	}

	for _, path := range downloadSchemas {
		log.Printf("Download schema generated at %s", path)
	}

	if mockPath := cmd.String("mock"); mockPath != "" {
		symbols := app.NormalizeSymbols(cmd.StringSlice("mock-symbols"))
		if err := generateMockData(mockPath, symbols, int(cmd.Int("mock-bars")), int64(cmd.Int("mock-seed"))); err != nil {
			return fmt.Errorf("failed to generate mock data: %w", err)
		}

		log.Printf("Mock data for %s generated at %s", strings.Join(symbols, ", "), mockPath)
	}

	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate configuration schemas, sample configs and mock market data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory receiving schemas and sample configs",
				Value:   "./config",
			},
			&cli.StringFlag{
				Name:  "mock",
				Usage: "Write synthetic daily bars to this parquet `FILE`",
			},
			&cli.StringSliceFlag{
				Name:  "mock-symbols",
				Usage: "Symbols of the synthetic bars",
				Value: []string{"AAPL", "SCHD"},
			},
			&cli.IntFlag{
				Name:  "mock-bars",
				Usage: "Number of synthetic bars per symbol",
				Value: 500,
			},
			&cli.IntFlag{
				Name:  "mock-seed",
				Usage: "Seed of the synthetic bar generator",
				Value: 1,
			},
		},
		Action: generateAction,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
