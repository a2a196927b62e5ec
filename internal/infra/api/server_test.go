package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"telegram-sport-subscription/internal/domain"
	"telegram-sport-subscription/internal/domain/model"
	"telegram-sport-subscription/internal/usecase"
)

type stubPaymentUC struct {
	InitiateFunc  func(ctx context.Context, userID, selectedSport string, test bool) (*usecase.InitiateResult, error)
	ReconcileFunc func(ctx context.Context, n usecase.Notification) error
	Reconciled    []usecase.Notification
}

func (s *stubPaymentUC) Initiate(ctx context.Context, userID, selectedSport string, test bool) (*usecase.InitiateResult, error) {
	if s.InitiateFunc != nil {
		return s.InitiateFunc(ctx, userID, selectedSport, test)
	}
	return &usecase.InitiateResult{PayURL: "https://pay.octo.uz/x", PaymentID: "x", ShopTransactionID: "p-u-1"}, nil
}

func (s *stubPaymentUC) Reconcile(ctx context.Context, n usecase.Notification) error {
	s.Reconciled = append(s.Reconciled, n)
	if s.ReconcileFunc != nil {
		return s.ReconcileFunc(ctx, n)
	}
	return nil
}

type stubStatsUC struct{}

func (stubStatsUC) Summary(ctx context.Context) (*usecase.Stats, error) {
	return &usecase.Stats{
		TransactionsByStatus: map[model.TransactionStatus]int{model.TransactionStatusPaid: 2},
		RevenueUZS:           100000,
	}, nil
}

func newTestServer(pay *stubPaymentUC) *Server {
	logger := zerolog.New(io.Discard)
	auth := NewAuthManager("test-secret", false, time.Minute)
	return NewServer(pay, stubStatsUC{}, auth, "hunter2", &logger)
}

func TestHandleOneTime(t *testing.T) {
	t.Run("redirects to the gateway pay url", func(t *testing.T) {
		srv := newTestServer(&stubPaymentUC{})
		req := httptest.NewRequest(http.MethodGet, "/octo/one-time?userId=u1&selectedSport=wrestling", nil)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusFound {
			t.Fatalf("status = %d, want 302", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "https://pay.octo.uz/x" {
			t.Errorf("Location = %s", loc)
		}
	})

	t.Run("rejects missing parameters", func(t *testing.T) {
		srv := newTestServer(&stubPaymentUC{})
		for _, url := range []string{"/octo/one-time", "/octo/one-time?userId=u1", "/octo/one-time?selectedSport=wrestling"} {
			req := httptest.NewRequest(http.MethodGet, url, nil)
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: status = %d, want 400", url, rec.Code)
			}
		}
	})

	t.Run("forwards the test flag", func(t *testing.T) {
		var gotTest bool
		pay := &stubPaymentUC{InitiateFunc: func(ctx context.Context, userID, selectedSport string, test bool) (*usecase.InitiateResult, error) {
			gotTest = test
			return &usecase.InitiateResult{PayURL: "https://pay.octo.uz/x"}, nil
		}}
		srv := newTestServer(pay)
		req := httptest.NewRequest(http.MethodGet, "/octo/one-time?userId=u1&selectedSport=wrestling&test=true", nil)
		srv.Router().ServeHTTP(httptest.NewRecorder(), req)
		if !gotTest {
			t.Error("test flag not forwarded")
		}
	})

	t.Run("surfaces initiate failures as client errors", func(t *testing.T) {
		pay := &stubPaymentUC{InitiateFunc: func(ctx context.Context, userID, selectedSport string, test bool) (*usecase.InitiateResult, error) {
			return nil, errors.New("plan not found for sport \"wrestling\"")
		}}
		srv := newTestServer(pay)
		req := httptest.NewRequest(http.MethodGet, "/octo/one-time?userId=u1&selectedSport=wrestling", nil)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("reports missing pay url as upstream failure", func(t *testing.T) {
		pay := &stubPaymentUC{InitiateFunc: func(ctx context.Context, userID, selectedSport string, test bool) (*usecase.InitiateResult, error) {
			return &usecase.InitiateResult{}, nil
		}}
		srv := newTestServer(pay)
		req := httptest.NewRequest(http.MethodGet, "/octo/one-time?userId=u1&selectedSport=wrestling", nil)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502", rec.Code)
		}
	})
}

func TestHandleNotify(t *testing.T) {
	t.Run("acknowledges processed notifications", func(t *testing.T) {
		pay := &stubPaymentUC{}
		srv := newTestServer(pay)
		body := bytes.NewBufferString(`{"octo_payment_UUID":"ext-1","status":"paid","extra":"ignored"}`)
		req := httptest.NewRequest(http.MethodPost, "/octo/notify", body)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var resp map[string]bool
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil || !resp["received"] {
			t.Errorf("response = %v, err = %v", resp, err)
		}
		if len(pay.Reconciled) != 1 || pay.Reconciled[0].PaymentID != "ext-1" || pay.Reconciled[0].Status != "paid" {
			t.Errorf("reconciled = %+v", pay.Reconciled)
		}
	})

	t.Run("rejects notifications the use case refuses", func(t *testing.T) {
		pay := &stubPaymentUC{ReconcileFunc: func(ctx context.Context, n usecase.Notification) error {
			return domain.ErrInvalidArgument
		}}
		srv := newTestServer(pay)
		req := httptest.NewRequest(http.MethodPost, "/octo/notify", bytes.NewBufferString(`{"status":"paid"}`))
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		srv := newTestServer(&stubPaymentUC{})
		req := httptest.NewRequest(http.MethodPost, "/octo/notify", bytes.NewBufferString(`{`))
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestAdminRoutes(t *testing.T) {
	srv := newTestServer(&stubPaymentUC{})
	router := srv.Router()

	t.Run("stats requires a session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewBufferString(`{"password":"wrong"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("login then stats succeeds", func(t *testing.T) {
		loginReq := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewBufferString(`{"password":"hunter2"}`))
		loginRec := httptest.NewRecorder()
		router.ServeHTTP(loginRec, loginReq)
		if loginRec.Code != http.StatusOK {
			t.Fatalf("login status = %d, want 200", loginRec.Code)
		}
		cookies := loginRec.Result().Cookies()
		if len(cookies) == 0 {
			t.Fatal("expected a session cookie")
		}

		statsReq := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		for _, c := range cookies {
			statsReq.AddCookie(c)
		}
		statsRec := httptest.NewRecorder()
		router.ServeHTTP(statsRec, statsReq)
		if statsRec.Code != http.StatusOK {
			t.Fatalf("stats status = %d, want 200", statsRec.Code)
		}
		var stats usecase.Stats
		if err := json.NewDecoder(statsRec.Body).Decode(&stats); err != nil {
			t.Fatalf("decode stats: %v", err)
		}
		if stats.RevenueUZS != 100000 {
			t.Errorf("revenue = %d, want 100000", stats.RevenueUZS)
		}
	})
}
