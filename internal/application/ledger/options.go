package ledger

import (
	"context"
	"time"

	"github.com/ledger/backend/internal/domain/accounting"
	"github.com/ledger/backend/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TracerName is the instrumentation scope of ledger service spans
const TracerName = "github.com/ledger/backend/internal/application/ledger"

// Conventions configures the convention-based routing used by invoice posting
type Conventions struct {
	ReceivableCodes  []string
	SalesJournalCode string
	InvoicePrefix    string
}

// DefaultConventions returns the built-in routing conventions
func DefaultConventions() Conventions {
	return Conventions{
		ReceivableCodes:  append([]string(nil), accounting.DefaultReceivableAccountCodes...),
		SalesJournalCode: accounting.DefaultSalesJournalCode,
		InvoicePrefix:    accounting.InvoiceNumberPrefix,
	}
}

type options struct {
	publisher   shared.EventPublisher
	logger      *zap.Logger
	tracer      trace.Tracer
	conventions Conventions
	now         func() time.Time
}

// Option configures a ledger service
type Option func(*options)

// WithEventPublisher publishes domain events after each successful commit
func WithEventPublisher(p shared.EventPublisher) Option {
	return func(o *options) { o.publisher = p }
}

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTracer sets the tracer used for posting spans
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithReceivableCodes overrides the ordered accounts-receivable candidate codes
func WithReceivableCodes(codes ...string) Option {
	return func(o *options) {
		if len(codes) > 0 {
			o.conventions.ReceivableCodes = codes
		}
	}
}

// WithSalesJournalCode overrides the journal code that receives posted invoices
func WithSalesJournalCode(code string) Option {
	return func(o *options) {
		if code != "" {
			o.conventions.SalesJournalCode = code
		}
	}
}

// WithInvoicePrefix overrides the invoice number prefix
func WithInvoicePrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.conventions.InvoicePrefix = prefix
		}
	}
}

// WithClock replaces time.Now for posting timestamps
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:      zap.NewNop(),
		tracer:      otel.Tracer(TracerName),
		conventions: DefaultConventions(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// publishEvents publishes and clears the pending events of each aggregate.
// Publishing failures are logged; the transaction has already committed.
func (o *options) publishEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
	for _, agg := range aggregates {
		events := agg.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		if o.publisher != nil {
			if err := o.publisher.Publish(ctx, events...); err != nil {
				o.logger.Warn("failed to publish domain events",
					zap.String("aggregate_id", agg.GetID().String()),
					zap.Int("event_count", len(events)),
					zap.Error(err),
				)
			}
		}
		agg.ClearDomainEvents()
	}
}
