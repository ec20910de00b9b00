package creditengine

import "time"

// Engine binds a validated Config to the decision pipeline.
// It holds no mutable state and is safe for concurrent use.
type Engine struct{ cfg Config }

func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Decide evaluates eligibility, then prices an offer or picks a referral.
func (e *Engine) Decide(s CashFlowSummary, asOf time.Time) (Decision, error) {
	res, err := Evaluate(s, e.cfg.Eligibility)
	if err != nil {
		return Decision{}, err
	}

	d := Decision{
		Approved: res.IsEligible,
		Reason:   res.Reason,
		Factors:  res.Factors,
		Summary:  s,
	}
	if !res.IsEligible {
		ref := RecommendReferral(s, res.Reason)
		d.Referral = &ref
		return d, nil
	}

	o, err := ComputeOffer(s, e.cfg.Offer, asOf)
	if err != nil {
		return Decision{}, err
	}
	d.Offer = &o
	return d, nil
}
