// Lists recent payment transactions with their user and plan resolved, for
// checking what a gateway notification actually did.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"telegram-sport-subscription/internal/config"
	"telegram-sport-subscription/internal/domain"
	pg "telegram-sport-subscription/internal/infra/db/postgres"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	limit := flag.Int("limit", 20, "how many transactions to show")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 2)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	txRepo := pg.NewTransactionRepo(pool)
	planRepo := pg.NewPlanRepo(pool)
	userRepo := pg.NewUserRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)

	txs, err := txRepo.ListRecent(ctx, nil, *limit)
	if err != nil {
		log.Fatalf("list transactions: %v", err)
	}
	if len(txs) == 0 {
		fmt.Println("no transactions found")
		return
	}

	for _, tx := range txs {
		planName := "?"
		if p, err := planRepo.FindByID(ctx, nil, tx.PlanID); err == nil {
			planName = p.Name
		}
		userLabel := tx.UserID
		if u, err := userRepo.FindByID(ctx, nil, tx.UserID); err == nil {
			userLabel = fmt.Sprintf("%s (tg=%d, subscribed_to=%q)", u.ID, u.TelegramID, u.SubscribedTo)
		}

		fmt.Printf("%s  %-8s  %8d %s  plan=%s\n", tx.CreatedAt.Format(time.RFC3339), tx.Status, tx.Amount, tx.Currency, planName)
		fmt.Printf("    external_id=%s sport=%s\n", tx.ExternalID, tx.SelectedSport)
		fmt.Printf("    user=%s\n", userLabel)

		sub, err := subRepo.FindActiveByUser(ctx, nil, tx.UserID)
		switch {
		case err == nil:
			fmt.Printf("    active subscription until %s\n", sub.EndsAt.Format("02.01.2006"))
		case errors.Is(err, domain.ErrNotFound):
			fmt.Println("    no active subscription")
		default:
			fmt.Printf("    subscription lookup failed: %v\n", err)
		}
	}
}
