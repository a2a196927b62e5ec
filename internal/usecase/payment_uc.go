package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"telegram-sport-subscription/internal/domain"
	"telegram-sport-subscription/internal/domain/model"
	"telegram-sport-subscription/internal/domain/ports/adapter"
	"telegram-sport-subscription/internal/domain/ports/repository"
	"telegram-sport-subscription/internal/infra/i18n"
	"telegram-sport-subscription/internal/infra/metrics"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// subscribedToTag is written to every paying user regardless of plan: the
// product currently runs a single football channel, so every subscription
// lands there.
const subscribedToTag = "football"

// Notification is the provider push reporting a payment outcome. Octo sends
// more fields; only these two participate in reconciliation.
type Notification struct {
	PaymentID string // octo_payment_UUID
	Status    string
}

type InitiateResult struct {
	PayURL            string
	PaymentID         string // gateway payment UUID
	ShopTransactionID string
}

type PaymentUseCase interface {
	// Initiate prepares a one-time payment with the gateway, records the
	// created transaction, and returns the redirect target.
	Initiate(ctx context.Context, userID, selectedSport string, test bool) (*InitiateResult, error)
	// Reconcile applies a gateway notification to the matching transaction
	// and, on the transition into paid, runs the activation sequence.
	// Unknown transactions and unrecognized statuses are tolerated: the
	// gateway retries callbacks, so only malformed input is an error.
	Reconcile(ctx context.Context, n Notification) error
}

// Locker serializes the activation sequence per transaction.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, error)
	Unlock(ctx context.Context, key, token string) error
}

type paymentUC struct {
	transactions repository.TransactionRepository
	plans        repository.PlanRepository
	users        repository.UserRepository
	subs         SubscriptionUseCase
	gateway      adapter.PaymentGateway
	bot          adapter.TelegramBotAdapter
	locker       Locker
	tr           *i18n.Translator
	channelID    int64
	testAmount   int64 // overrides plan price when > 0 (test traffic)
	log          *zerolog.Logger
}

func NewPaymentUseCase(
	transactions repository.TransactionRepository,
	plans repository.PlanRepository,
	users repository.UserRepository,
	subs SubscriptionUseCase,
	gateway adapter.PaymentGateway,
	bot adapter.TelegramBotAdapter,
	locker Locker,
	tr *i18n.Translator,
	channelID int64,
	testAmount int64,
	logger *zerolog.Logger,
) *paymentUC {
	return &paymentUC{
		transactions: transactions,
		plans:        plans,
		users:        users,
		subs:         subs,
		gateway:      gateway,
		bot:          bot,
		locker:       locker,
		tr:           tr,
		channelID:    channelID,
		testAmount:   testAmount,
		log:          logger,
	}
}

// resolvePlanName maps the checkout selection tag to a plan name. Any tag we
// do not know falls back to the football plan, the product's default line.
func resolvePlanName(selectedSport string) string {
	if selectedSport == "wrestling" {
		return "Yakka kurash"
	}
	return "Futbol"
}

func (u *paymentUC) Initiate(ctx context.Context, userID, selectedSport string, test bool) (*InitiateResult, error) {
	if userID == "" || selectedSport == "" {
		return nil, domain.ErrInvalidArgument
	}

	planName := resolvePlanName(selectedSport)
	plan, err := u.plans.FindByName(ctx, nil, planName)
	if err != nil {
		return nil, fmt.Errorf("plan not found for sport %q: %w", selectedSport, err)
	}

	amount := plan.PriceUZS
	if u.testAmount > 0 {
		amount = u.testAmount
	}

	shopTransactionID := fmt.Sprintf("%s-%s-%d", plan.ID, userID, time.Now().UnixMilli())

	prepared, err := u.gateway.PreparePayment(ctx, adapter.PrepareRequest{
		ShopTransactionID: shopTransactionID,
		Amount:            amount,
		Currency:          "UZS",
		Description:       fmt.Sprintf("One-time payment for %s", plan.Name),
		Test:              test,
	})
	if err != nil {
		u.log.Error().Err(err).Str("user_id", userID).Str("plan", plan.Name).Msg("octo prepare payment failed")
		return nil, err
	}

	tx, err := model.NewTransaction(u.gateway.Name(), model.PaymentTypeOneTime, amount, "UZS", userID, plan.ID, selectedSport, prepared.PaymentID)
	if err != nil {
		return nil, err
	}
	if err := u.transactions.Save(ctx, nil, tx); err != nil {
		// The gateway already holds an outstanding payment for this request;
		// losing the record here means the notification will not match.
		u.log.Error().Err(err).Str("ext_id", prepared.PaymentID).Msg("failed to persist created transaction")
		return nil, err
	}

	metrics.IncPaymentInitiated()
	u.log.Info().Str("user_id", userID).Str("plan", plan.Name).Str("ext_id", prepared.PaymentID).Int64("amount", amount).Msg("payment initiated")

	return &InitiateResult{
		PayURL:            prepared.PayURL,
		PaymentID:         prepared.PaymentID,
		ShopTransactionID: shopTransactionID,
	}, nil
}

func (u *paymentUC) Reconcile(ctx context.Context, n Notification) error {
	if n.PaymentID == "" || n.Status == "" {
		metrics.IncNotification("rejected")
		return fmt.Errorf("missing payment UUID or status: %w", domain.ErrInvalidArgument)
	}

	tx, err := u.transactions.FindByExternalID(ctx, nil, u.gateway.Name(), n.PaymentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// The gateway retries callbacks and may notify about foreign
			// transactions; those are acknowledged, not failed.
			u.log.Warn().Str("ext_id", n.PaymentID).Msg("octo notify: transaction not found")
			metrics.IncNotification("unknown_tx")
			return nil
		}
		return err
	}

	target, ok := model.MapGatewayStatus(n.Status)
	if !ok {
		u.log.Info().Str("ext_id", n.PaymentID).Str("status", n.Status).Msg("octo notify: unrecognized status")
		metrics.IncNotification("unrecognized_status")
		return nil
	}

	if tx.Status == target {
		metrics.IncNotification("duplicate")
		return nil
	}
	if !tx.Status.CanTransition(target) {
		// First terminal status observed is the store of record.
		u.log.Error().Str("ext_id", n.PaymentID).Str("from", string(tx.Status)).Str("to", string(target)).Msg("octo notify: cross-terminal transition rejected")
		metrics.IncNotification("rejected")
		return nil
	}

	changed, err := u.transactions.TransitionStatus(ctx, nil, tx.ID, target)
	if err != nil {
		return err
	}
	if !changed {
		// Lost the read-modify-write race: another notification moved the
		// row first. Its handler owns the side effects.
		u.log.Warn().Str("ext_id", n.PaymentID).Str("to", string(target)).Msg("octo notify: transition already applied")
		metrics.IncNotification("duplicate")
		return nil
	}

	metrics.IncNotification("applied")
	metrics.IncPayment(string(target))
	u.log.Info().Str("ext_id", n.PaymentID).Str("status", string(target)).Msg("transaction status applied")

	if target == model.TransactionStatusPaid {
		metrics.AddPaymentRevenue(tx.Currency, tx.Amount)
		u.runActivation(ctx, tx)
	}
	return nil
}

// runActivation drives the post-payment side effects: subscription
// activation, category tag, invite link, user message. The paid status is
// already durable; nothing here may fail the notification or roll it back.
func (u *paymentUC) runActivation(ctx context.Context, tx *model.Transaction) {
	log := u.log.With().Str("ext_id", tx.ExternalID).Logger()

	if u.locker != nil {
		token, err := u.locker.TryLock(ctx, "activation:"+tx.ID, 30*time.Second)
		if err != nil {
			log.Warn().Err(err).Msg("activation already in progress, skipping")
			return
		}
		defer func() {
			if err := u.locker.Unlock(ctx, "activation:"+tx.ID, token); err != nil {
				log.Warn().Err(err).Msg("failed to release activation lock")
			}
		}()
	}

	plan, err := u.plans.FindByID(ctx, nil, tx.PlanID)
	if err != nil {
		log.Error().Err(err).Str("plan_id", tx.PlanID).Msg("octo notify: plan not found for transaction")
		return
	}
	user, err := u.users.FindByID(ctx, nil, tx.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", tx.UserID).Msg("octo notify: user not found for transaction")
		return
	}

	sub, err := u.subs.Activate(ctx, user.ID, plan)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to activate subscription")
		return
	}

	if err := u.users.UpdateSubscribedTo(ctx, nil, user.ID, subscribedToTag); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to update subscribed_to tag")
		return
	}

	if user.TelegramID == 0 {
		log.Warn().Str("user_id", user.ID).Msg("user has no telegram id, skipping invite delivery")
		return
	}
	if u.bot == nil {
		log.Error().Msg("telegram bot not configured, cannot send invite link")
		return
	}

	link, err := u.bot.CreateInviteLink(ctx, u.channelID)
	if err != nil {
		log.Error().Err(err).Msg("failed to create invite link")
		return
	}

	text := u.tr.T("payment_success", sub.EndsAt.Format("02.01.2006"))
	rows := [][]adapter.InlineButton{
		{{Text: u.tr.T("btn_join_channel"), URL: link}},
		{{Text: u.tr.T("btn_main_menu"), Data: "main_menu"}},
	}
	if err := u.bot.SendButtons(ctx, user.TelegramID, text, rows); err != nil {
		log.Error().Err(err).Int64("tg_id", user.TelegramID).Msg("failed to deliver invite message")
		return
	}

	log.Info().Str("user_id", user.ID).Time("ends_at", sub.EndsAt).Msg("activation sequence completed")
}
