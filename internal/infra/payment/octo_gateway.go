package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"telegram-sport-subscription/internal/config"
	"telegram-sport-subscription/internal/domain"
	"telegram-sport-subscription/internal/domain/model"
	"telegram-sport-subscription/internal/domain/ports/adapter"
)

const defaultPrepareURL = "https://secure.octo.uz/prepare_payment"

var _ adapter.PaymentGateway = (*OctoGateway)(nil)

// OctoGateway implements the payment port against Octo's prepare_payment API.
type OctoGateway struct {
	cfg        config.OctoConfig
	prepareURL string
	client     *http.Client
}

func NewOctoGateway(cfg config.OctoConfig) *OctoGateway {
	return &OctoGateway{
		cfg:        cfg,
		prepareURL: defaultPrepareURL,
		// No automatic retry: a duplicated prepare call would register a
		// second payment intent on the provider side.
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *OctoGateway) Name() model.PaymentProvider { return model.ProviderOcto }

// formatInitTime renders the request timestamp the way Octo expects it:
// "YYYY-MM-DD HH:MM:SS" in local time.
func formatInitTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

type preparePayload struct {
	PaymentUUID string `json:"octo_payment_UUID"`
	PayURL      string `json:"octo_pay_url"`
}

// prepareResponse tolerates both response shapes Octo has been observed to
// return: the payload nested under "data" or inlined at the top level.
type prepareResponse struct {
	Error      int            `json:"error"`
	ErrMessage string         `json:"errMessage"`
	Data       preparePayload `json:"data"`
	preparePayload
}

func (g *OctoGateway) PreparePayment(ctx context.Context, req adapter.PrepareRequest) (*adapter.PreparedPayment, error) {
	body := map[string]any{
		"octo_shop_id":        g.cfg.ShopID,
		"octo_secret":         g.cfg.SecretKey,
		"shop_transaction_id": req.ShopTransactionID,
		"auto_capture":        true,
		"init_time":           formatInitTime(time.Now()),
		"total_sum":           req.Amount,
		"currency":            req.Currency,
		"description":         req.Description,
	}
	if req.Test || g.cfg.TestMode {
		body["test"] = true
	}
	if g.cfg.ReturnURL != "" {
		body["return_url"] = g.cfg.ReturnURL
	}
	if g.cfg.NotifyURL != "" {
		body["notify_url"] = g.cfg.NotifyURL
	}
	if g.cfg.Language != "" {
		body["language"] = g.cfg.Language
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal prepare request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.prepareURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create prepare request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send prepare request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read prepare response: %w", err)
	}

	var parsed prepareResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal prepare response: %w, body: %s", err, string(raw))
	}

	if parsed.Error != 0 {
		if parsed.ErrMessage != "" {
			return nil, fmt.Errorf("%w: %s", domain.ErrGatewayRejected, parsed.ErrMessage)
		}
		return nil, fmt.Errorf("%w: error code %d", domain.ErrGatewayRejected, parsed.Error)
	}

	payload := parsed.Data
	if payload.PaymentUUID == "" && payload.PayURL == "" {
		payload = parsed.preparePayload
	}
	if payload.PayURL == "" {
		return nil, domain.ErrMissingRedirectURL
	}

	return &adapter.PreparedPayment{
		PaymentID: payload.PaymentUUID,
		PayURL:    payload.PayURL,
	}, nil
}
