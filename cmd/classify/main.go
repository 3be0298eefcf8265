// Package main classifies a single transaction and prints the outcome as
// JSON. Useful for probing provider payloads and debugging classification
// decisions without running the full tracker.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"solana-whale-watch/internal/classifier"
	"solana-whale-watch/internal/coreassets"
	"solana-whale-watch/internal/domain"
	"solana-whale-watch/internal/logger"
	"solana-whale-watch/internal/provider"
)

func main() {
	_ = godotenv.Load()

	file := flag.String("file", "", "Path to a JSON file holding one parsed transaction")
	signature := flag.String("signature", "", "Transaction signature to fetch from the provider")
	endpoint := flag.String("endpoint", os.Getenv("PROVIDER_ENDPOINT"), "Provider HTTP endpoint")
	apiKey := flag.String("api-key", os.Getenv("PROVIDER_API_KEY"), "Provider API key")
	dustEpsilon := flag.Float64("dust-epsilon", classifier.DefaultDustEpsilon, "Dust threshold for balance deltas")
	logLevel := flag.String("log-level", "error", "Log level")
	flag.Parse()

	log := logger.New(*logLevel)

	if (*file == "") == (*signature == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -file or -signature is required")
		os.Exit(2)
	}

	tx, err := loadTransaction(*file, *signature, *endpoint, *apiKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load transaction: %v\n", err)
		os.Exit(1)
	}

	cls := classifier.New(coreassets.Default(),
		classifier.WithDustEpsilon(*dustEpsilon),
		classifier.WithLogger(log),
	)

	outcome := cls.Classify(tx)

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")

	switch result := outcome.(type) {
	case *domain.ClassifiedSwap:
		mustEncode(out, map[string]any{"outcome": "swap", "swap": result})
	case *domain.SplitSwapPair:
		mustEncode(out, map[string]any{"outcome": "split_swap", "sell": result.SellRecord, "buy": result.BuyRecord})
	case *domain.ErasureResult:
		mustEncode(out, map[string]any{"outcome": "erased", "erasure": result})
		os.Exit(3)
	}
}

// loadTransaction reads a parsed transaction from disk or the provider.
func loadTransaction(file, signature, endpoint, apiKey string) (*domain.RawTransaction, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		var tx domain.RawTransaction
		if err := json.Unmarshal(data, &tx); err != nil {
			return nil, fmt.Errorf("decode transaction: %w", err)
		}
		return &tx, nil
	}

	if endpoint == "" {
		return nil, fmt.Errorf("provider endpoint is required to fetch by signature")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := provider.NewClient(endpoint, provider.WithAPIKey(apiKey))
	tx, err := client.GetTransaction(ctx, signature)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction %s not found", signature)
	}
	return tx, nil
}

func mustEncode(enc *json.Encoder, v any) {
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encode outcome: %v\n", err)
		os.Exit(1)
	}
}
