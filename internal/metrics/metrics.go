package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "signin"

// Service holds the domain collectors of the sign-in service.
// A nil *Service is valid and records nothing.
type Service struct {
	signInRequests *prometheus.CounterVec
	polls          *prometheus.CounterVec
	qrRenders      *prometheus.CounterVec
}

// New creates the collectors and registers them with registerer.
func New(registerer prometheus.Registerer) (*Service, error) {
	s := &Service{
		signInRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Number of sign-in attempts by result.",
		}, []string{"result"}),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_total",
			Help:      "Number of signed key request polls by observed state.",
		}, []string{"state"}),
		qrRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "qr_renders_total",
			Help:      "Number of rendered deep link QR codes by result.",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{s.signInRequests, s.polls, s.qrRenders} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Service) SignInAttempt(result string) {
	if s == nil {
		return
	}
	s.signInRequests.WithLabelValues(result).Inc()
}

// Poll counts a poll. Unrecognized states are folded into "other" to bound cardinality.
func (s *Service) Poll(state string, known bool) {
	if s == nil {
		return
	}
	if !known {
		state = "other"
	}
	s.polls.WithLabelValues(state).Inc()
}

func (s *Service) QRRender(result string) {
	if s == nil {
		return
	}
	s.qrRenders.WithLabelValues(result).Inc()
}
