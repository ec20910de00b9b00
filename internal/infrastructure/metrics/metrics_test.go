package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cashflow-bridge/internal/creditengine"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_ObserveDecision(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.ObserveDecision(creditengine.Decision{Approved: true, Offer: &creditengine.CreditOffer{LoanAmount: 800, RiskScore: 78}})
	r.ObserveDecision(creditengine.Decision{
		Reason:   creditengine.ReasonNegativeNetCashFlow,
		Referral: &creditengine.Referral{Partner: "IHK business advisory"},
	})
	r.ObserveDecision(creditengine.Decision{
		Reason:   creditengine.ReasonNegativeNetCashFlow,
		Referral: &creditengine.Referral{Partner: "IHK business advisory"},
	})

	if got := testutil.ToFloat64(r.decisions.WithLabelValues("approved", "")); got != 1 {
		t.Fatalf("approved = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.decisions.WithLabelValues("rejected", creditengine.ReasonNegativeNetCashFlow)); got != 2 {
		t.Fatalf("rejected = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.referrals.WithLabelValues("IHK business advisory")); got != 2 {
		t.Fatalf("referrals = %v, want 2", got)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)
	r.ObserveLoanState("accepted")
	r.ObserveSwept(3)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	res, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	for _, want := range []string{
		`cashflow_bridge_loan_transitions_total{state="accepted"} 1`,
		`cashflow_bridge_offers_expired_total 3`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("missing %q in:\n%s", want, body)
		}
	}
}
