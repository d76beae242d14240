package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/insight"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

const (
	// NoDataMessage is returned when there is nothing to analyze.
	NoDataMessage = "No transaction data available for analysis."
	// FallbackMessage is returned whenever generation fails; the raw
	// error is only logged.
	FallbackMessage = "Unable to generate insights at this time."
)

// ErrInsightGeneration marks generator failures in logs.
var ErrInsightGeneration = errors.New("failed to generate financial insights")

// InsightService turns the transaction history into advisory text.
type InsightService struct {
	storage   *storage.Repository
	generator insight.Generator
	timeout   time.Duration
	now       func() time.Time
	logger    *log.Logger
}

func NewInsightService(storage *storage.Repository, generator insight.Generator, timeout time.Duration, logger *log.Logger) *InsightService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &InsightService{
		storage:   storage,
		generator: generator,
		timeout:   timeout,
		now:       time.Now,
		logger:    logger.WithComponent(log.ComponentInsight),
	}
}

// Insight summarizes all transactions and asks the generator for advice.
// Generation failures degrade to the fixed fallback text instead of an
// error; only storage problems are returned to the caller.
func (s *InsightService) Insight(ctx context.Context) (string, error) {
	txs, err := s.storage.ListTransactions(ctx, core.TransactionFilter{})
	if err != nil {
		return "", fmt.Errorf("list transactions: %w", err)
	}
	if len(txs) == 0 {
		return NoDataMessage, nil
	}

	summary := insight.BuildSummary(txs, s.now())
	prompt := insight.BuildPrompt(summary)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if s.generator == nil {
		s.logger.WarnContext(ctx, "no insight generator configured")
		return FallbackMessage, nil
	}

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.ErrorContext(ctx, "insight generation failed",
			log.FieldError, fmt.Errorf("%w: %w", ErrInsightGeneration, err))
		return FallbackMessage, nil
	}
	if text == "" {
		return FallbackMessage, nil
	}
	return text, nil
}
