package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/inertlabs/tokenguard/internal/cache"
	"github.com/inertlabs/tokenguard/internal/chain"
	"github.com/inertlabs/tokenguard/internal/config"
	"github.com/inertlabs/tokenguard/internal/engine"
	"github.com/inertlabs/tokenguard/internal/honeypot"
	"github.com/inertlabs/tokenguard/internal/logging"
	"github.com/inertlabs/tokenguard/internal/metadata"
	"github.com/inertlabs/tokenguard/internal/scoring"
	"github.com/inertlabs/tokenguard/internal/simulator"
)

type basicTokenInfo struct {
	Address string `json:"contract_address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("ERROR loading config:", err)
		return
	}

	log, err := logging.New(cfg.LogLevel, "console")
	if err != nil {
		fmt.Println("ERROR building logger:", err)
		return
	}
	defer log.Sync()

	listFile := "tokens.json"
	if len(os.Args) > 1 {
		listFile = os.Args[1]
	}
	tokenInfos := readTokens(listFile)
	if len(tokenInfos) == 0 {
		fmt.Println("No tokens to screen")
		return
	}

	ctx := context.Background()
	ec, err := chain.Dial(ctx, cfg.BSCRPCURL, cfg.BSCRPCURLBackup, log)
	if err != nil {
		fmt.Println("ERROR connecting to BSC:", err)
		return
	}
	defer ec.Close()

	client := chain.NewClient(ec, chain.Options{
		Router:  common.HexToAddress(cfg.RouterAddress),
		Factory: common.HexToAddress(cfg.FactoryAddress),
		WBNB:    common.HexToAddress(cfg.WBNBAddress),
		Retries: cfg.RPCRetries,
	}, log)

	provider := metadata.NewProvider(client, metadata.NewBscScanClient(cfg.BscScanAPIKey), cache.NewMemoryStore(), cfg.MetadataCacheTTL, log)
	sim := simulator.New(client, cfg.TestAmountsBNB, log)
	detector := honeypot.NewDetector(sim, client, log)
	eng := engine.New(provider, detector, scoring.New(log), log)

	fmt.Printf("Token Risk Screening Pipeline\n")
	fmt.Printf("Total: %d tokens\n\n", len(tokenInfos))

	safeCount := 0
	for i, tokenInfo := range tokenInfos {
		fmt.Printf("[%d/%d] %s (%s)\n", i+1, len(tokenInfos), tokenInfo.Symbol, tokenInfo.Address)

		runCtx, cancel := context.WithTimeout(ctx, cfg.RPCTimeout*3)
		analysis, err := eng.Analyze(runCtx, tokenInfo.Address)
		cancel()
		if err != nil {
			fmt.Printf("  ERROR: %v\n\n", err)
			continue
		}

		verdict, breakdown := analysis.Verdict, analysis.Breakdown
		fmt.Printf("  Buy: %t | Sell: %t | BuyTax: %.1f%% | SellTax: %.1f%% | Liquidity: %t\n",
			verdict.CanBuy, verdict.CanSell, verdict.BuyTax, verdict.SellTax,
			verdict.Liquidity != nil && verdict.Liquidity.HasLiquidity)
		fmt.Printf("  Score: %.1f (%s) | Risk: %s | Confidence: %.2f\n",
			breakdown.FinalScore, breakdown.Grade, breakdown.RiskLevel, breakdown.ConfidenceLevel)

		if verdict.IsHoneypot {
			fmt.Printf("  Result: HONEYPOT - %s\n\n", verdict.Recommendation)
		} else {
			safeCount++
			fmt.Printf("  Result: %s\n\n", verdict.Recommendation)
		}

		time.Sleep(2 * time.Second)
	}

	fmt.Printf("Summary: %d/%d passed (%.1f%%)\n",
		safeCount, len(tokenInfos), float64(safeCount)/float64(len(tokenInfos))*100)
}

func readTokens(fileName string) []basicTokenInfo {
	data, err := os.ReadFile(fileName)
	if err != nil {
		fmt.Println("Error reading file:", err)
		return nil
	}

	var tokens []basicTokenInfo
	json.Unmarshal(data, &tokens)
	return tokens
}
