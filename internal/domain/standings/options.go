package standings

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithGateMode sets the condition gate.
func WithGateMode(m GateMode) Option {
	return func(a *Aggregator) {
		a.gate = m
	}
}

// WithBonusMode sets how bonus points reach the points total.
func WithBonusMode(m BonusMode) Option {
	return func(a *Aggregator) {
		a.bonus = m
	}
}

// WithNumericPolicy sets the handling of absent numeric rule fields.
func WithNumericPolicy(p NumericPolicy) Option {
	return func(a *Aggregator) {
		a.numeric = p
	}
}

// WithEventLog keeps every event of a team's sides on its standing.
func WithEventLog(enabled bool) Option {
	return func(a *Aggregator) {
		a.eventLog = enabled
	}
}

// WithAwardHook registers fn to be called for every award of a committed
// match, in processing order.
func WithAwardHook(fn func(Award)) Option {
	return func(a *Aggregator) {
		if fn != nil {
			a.onAward = fn
		}
	}
}
