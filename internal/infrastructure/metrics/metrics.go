package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/iho/bookkeeper/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Account metrics
	AccountsOpened *prometheus.CounterVec
	BalanceQueries *prometheus.CounterVec
	SideFlips      prometheus.Counter

	// Transaction metrics
	TransactionsPosted    *prometheus.CounterVec
	TransactionsRejected  *prometheus.CounterVec
	EntriesPosted         *prometheus.CounterVec
	EntriesPerTransaction prometheus.Histogram
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AccountsOpened: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "accounts_opened_total",
				Help:      "Total number of accounts opened by currency",
			},
			[]string{"currency"},
		),
		BalanceQueries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "balance_queries_total",
				Help:      "Total balance queries by reported side",
			},
			[]string{"side"},
		),
		SideFlips: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "account_side_flips_total",
			Help:      "Total number of balance queries that flipped an account's side",
		}),

		TransactionsPosted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_posted_total",
				Help:      "Total number of transactions posted by currency",
			},
			[]string{"currency"},
		),
		TransactionsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_rejected_total",
				Help:      "Total number of transactions rejected by error kind",
			},
			[]string{"kind"},
		),
		EntriesPosted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "entries_posted_total",
				Help:      "Total number of entries posted by currency",
			},
			[]string{"currency"},
		),
		EntriesPerTransaction: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "entries_per_transaction",
			Help:      "Number of entries in posted transactions",
			Buckets:   []float64{2, 3, 4, 6, 10, 20, 50},
		}),
	}
}

// AccountOpened counts a newly opened account.
func (m *Metrics) AccountOpened(currency string) {
	m.AccountsOpened.WithLabelValues(currency).Inc()
}

// TransactionPosted counts a posted transaction and its entries.
func (m *Metrics) TransactionPosted(currency string, entries int) {
	m.TransactionsPosted.WithLabelValues(currency).Inc()
	m.EntriesPosted.WithLabelValues(currency).Add(float64(entries))
	m.EntriesPerTransaction.Observe(float64(entries))
}

// TransactionRejected counts a refused posting by error kind.
func (m *Metrics) TransactionRejected(kind string) {
	m.TransactionsRejected.WithLabelValues(kind).Inc()
}

// BalanceQueried counts a balance query and any side flip it caused.
func (m *Metrics) BalanceQueried(side domain.Side, flipped bool) {
	m.BalanceQueries.WithLabelValues(side.String()).Inc()
	if flipped {
		m.SideFlips.Inc()
	}
}

// Nop discards every event. It is used when metrics are disabled.
type Nop struct{}

// AccountOpened does nothing.
func (Nop) AccountOpened(string) {}

// TransactionPosted does nothing.
func (Nop) TransactionPosted(string, int) {}

// TransactionRejected does nothing.
func (Nop) TransactionRejected(string) {}

// BalanceQueried does nothing.
func (Nop) BalanceQueried(domain.Side, bool) {}

// Dump writes everything g gathers in the Prometheus text format.
func Dump(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
