package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"

	"charity-auction/internal/config"
	"charity-auction/internal/ledger"
)

// Smoke check against the configured fullnode: counts the creation events
// each sync pass starts from. Run with: go run scripts/ledger_check.go
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := logrus.New()
	client := ledger.NewClient(cfg.Ledger.RPCURL, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("RPC:", cfg.Ledger.RPCURL)
	fmt.Println("Package:", cfg.Ledger.PackageID)

	for _, eventName := range []string{"AuctionCreated", "CharityRegistered", "DisbursementRequestCreated"} {
		events, err := client.QueryEvents(ctx, cfg.Ledger.EventType(eventName), 100)
		if err != nil {
			log.Fatalf("Failed to query %s events: %v", eventName, err)
		}
		fmt.Printf("%-28s %d\n", eventName, len(events))
	}

	fmt.Println("✅ Fullnode reachable")
}
