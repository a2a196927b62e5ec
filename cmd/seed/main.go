// Seeds the plans the checkout flow expects, plus an optional demo user and
// a pending test transaction for exercising the notify endpoint by hand.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"telegram-sport-subscription/internal/config"
	"telegram-sport-subscription/internal/domain/model"
	pg "telegram-sport-subscription/internal/infra/db/postgres"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	demoUser := flag.Bool("demo-user", false, "also create a demo user")
	demoTgID := flag.Int64("demo-telegram-id", 0, "telegram id for the demo user (0 = unlinked)")
	demoTx := flag.Bool("demo-tx", false, "also create a pending test transaction for the demo user")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	planRepo := pg.NewPlanRepo(pool)
	userRepo := pg.NewUserRepo(pool)
	txRepo := pg.NewTransactionRepo(pool)

	// Plans the sport tags resolve to.
	seed := []struct {
		Name  string
		Price int64
		Days  int
	}{
		{"Futbol", 40_000, 30},
		{"Yakka kurash", 50_000, 30},
	}
	for _, s := range seed {
		if existing, err := planRepo.FindByName(ctx, nil, s.Name); err == nil {
			fmt.Printf("plan %q already present (id=%s). No changes.\n", existing.Name, existing.ID)
			continue
		}
		p, err := model.NewPlan(uuid.NewString(), s.Name, s.Price, s.Days)
		if err != nil {
			log.Fatalf("plan %q: %v", s.Name, err)
		}
		if err := planRepo.Save(ctx, nil, p); err != nil {
			log.Fatalf("save plan %q: %v", s.Name, err)
		}
		fmt.Printf("seeded: %s (id=%s, price=%d UZS, days=%d)\n", p.Name, p.ID, p.PriceUZS, p.DurationDays)
	}

	if !*demoUser {
		fmt.Println("Seeding complete.")
		return
	}

	u, err := model.NewUser(uuid.NewString(), *demoTgID, "demo")
	if err != nil {
		log.Fatalf("demo user: %v", err)
	}
	if err := userRepo.Save(ctx, nil, u); err != nil {
		log.Fatalf("save demo user: %v", err)
	}
	fmt.Printf("demo user: id=%s telegram_id=%d\n", u.ID, u.TelegramID)

	if *demoTx {
		plan, err := planRepo.FindByName(ctx, nil, "Futbol")
		if err != nil {
			log.Fatalf("find plan for demo tx: %v", err)
		}
		extID := uuid.NewString()
		tx, err := model.NewTransaction(
			model.ProviderOcto, model.PaymentTypeOneTime,
			plan.PriceUZS, "UZS",
			u.ID, plan.ID, "football", extID,
		)
		if err != nil {
			log.Fatalf("demo tx: %v", err)
		}
		if err := txRepo.Save(ctx, nil, tx); err != nil {
			log.Fatalf("save demo tx: %v", err)
		}
		fmt.Printf("demo transaction: id=%s external_id=%s status=%s\n", tx.ID, extID, tx.Status)
		fmt.Printf("  notify with: curl -X POST localhost:%d/octo/notify -d '{\"octo_payment_UUID\":\"%s\",\"status\":\"paid\"}'\n", cfg.Server.Port, extID)
	}

	fmt.Println("Seeding complete.")
}
