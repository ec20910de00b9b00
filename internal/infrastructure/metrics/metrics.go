package metrics

import (
	"net/http"

	"cashflow-bridge/internal/creditengine"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cashflow_bridge"

type Recorder struct {
	decisions  *prometheus.CounterVec
	referrals  *prometheus.CounterVec
	loanAmount prometheus.Histogram
	riskScore  prometheus.Histogram
	loanStates *prometheus.CounterVec
	swept      prometheus.Counter
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Credit decisions by outcome and rejection reason.",
		}, []string{"outcome", "reason"}),
		referrals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "referrals_total",
			Help:      "Referrals handed out to rejected applicants.",
		}, []string{"partner"}),
		loanAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "offer_loan_amount_eur",
			Help:      "Weekly credit line amounts offered.",
			Buckets:   prometheus.LinearBuckets(500, 500, 10),
		}),
		riskScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "offer_risk_score",
			Help:      "Risk scores of approved applicants.",
			Buckets:   prometheus.LinearBuckets(30, 10, 8),
		}),
		loanStates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loan_transitions_total",
			Help:      "Loan state transitions.",
		}, []string{"state"}),
		swept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_expired_total",
			Help:      "Offers removed by the expiry sweep.",
		}),
	}
	reg.MustRegister(r.decisions, r.referrals, r.loanAmount, r.riskScore, r.loanStates, r.swept)
	return r
}

func (r *Recorder) ObserveDecision(d creditengine.Decision) {
	if d.Approved {
		r.decisions.WithLabelValues("approved", "").Inc()
		if d.Offer != nil {
			r.loanAmount.Observe(d.Offer.LoanAmount)
			r.riskScore.Observe(float64(d.Offer.RiskScore))
		}
		return
	}
	r.decisions.WithLabelValues("rejected", d.Reason).Inc()
	if d.Referral != nil {
		r.referrals.WithLabelValues(d.Referral.Partner).Inc()
	}
}

func (r *Recorder) ObserveLoanState(state string) { r.loanStates.WithLabelValues(state).Inc() }

func (r *Recorder) ObserveSwept(n int) { r.swept.Add(float64(n)) }

// Handler exposes the registry for GET /metrics.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
