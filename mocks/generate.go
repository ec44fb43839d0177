package mocks

//go:generate mockgen -destination=./mock_status_provider.go -package=mocks github.com/mkhv12/stk-advisor/internal/indicator StatusProvider
//go:generate mockgen -destination=./mock_proposer.go -package=mocks github.com/mkhv12/stk-advisor/internal/optimizer Proposer
//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/mkhv12/stk-advisor/internal/backtest/engine/engine_v1/datasource DataSource
//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/mkhv12/stk-advisor/pkg/marketdata/provider Provider
