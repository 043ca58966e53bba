package payment

import (
	"context"
	"log/slog"
	"time"

	"github.com/MatthewPhinney/five-bells-sender/domain"
)

// Executor is the top-level orchestrator: it composes path finding,
// transfer assembly, notarization, condition derivation and submission into
// the end-to-end payment flow. It talks only to the ports; every step's
// failure short-circuits the rest and surfaces its error kind unchanged.
type Executor struct {
	gateway    LedgerGateway
	pathfinder *PathFinder
	assembler  *TransferAssembler
	notary     *NotaryCoordinator
	deriver    ConditionDeriver
	now        func() time.Time
}

// Option configures an Executor.
type Option func(*Executor)

// WithConditionDeriver replaces the default hash-based condition deriver.
func WithConditionDeriver(d ConditionDeriver) Option {
	return func(e *Executor) { e.deriver = d }
}

// WithQuoteComparator replaces the default cost ordering for quotes.
func WithQuoteComparator(cheaper QuoteComparator) Option {
	return func(e *Executor) { e.pathfinder.cheaper = cheaper }
}

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) {
		e.now = now
		e.assembler.now = now
	}
}

// NewExecutor wires an Executor over the given ports. The notary port may
// be nil when only universal payments are executed.
func NewExecutor(gateway LedgerGateway, quoter QuoteRequester, notary Notary, opts ...Option) *Executor {
	e := &Executor{
		gateway:    gateway,
		pathfinder: NewPathFinder(gateway, quoter, nil),
		assembler:  NewTransferAssembler(),
		deriver:    HashDeriver{},
		now:        time.Now,
	}
	if notary != nil {
		e.notary = NewNotaryCoordinator(notary)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FindPath quotes the payment without executing it. It returns (nil, nil)
// when no connector can serve the path.
func (e *Executor) FindPath(ctx context.Context, p *Params) (*domain.ConnectorQuote, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return e.pathfinder.FindPath(ctx, quoteRequest(p))
}

// SendPayment finds the cheapest path and executes the payment over it.
// It returns (nil, nil) when the payment is unroutable, distinguishable
// from a failed attempt because the error is nil.
func (e *Executor) SendPayment(ctx context.Context, p *Params) (*domain.Transfer, error) {
	quote, err := e.FindPath(ctx, p)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, nil
	}
	return e.ExecutePayment(ctx, quote, p)
}

// ExecutePayment runs the payment over an already selected quote:
// assemble, notarize (atomic mode), derive and attach conditions, submit
// the first transfer. The executor performs no retries and no compensating
// transactions; external state created before a failure (e.g. a registered
// case) is left for the caller to reconcile.
func (e *Executor) ExecutePayment(ctx context.Context, quote *domain.ConnectorQuote, p *Params) (*domain.Transfer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	run := &execution{exec: e, params: p, quote: quote}
	steps := []func(context.Context) error{
		run.assemble,
		run.setupCase,
		run.setupConditions,
		run.submit,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return nil, err
		}
	}
	return run.transfer, nil
}

// execution is the explicit state threaded through the payment stages.
// Each stage consumes what the previous one produced; nothing here is
// shared across concurrent payments.
type execution struct {
	exec     *Executor
	params   *Params
	quote    *domain.ConnectorQuote
	transfer *domain.Transfer
	caseID   string
}

func (r *execution) assemble(context.Context) error {
	transfer, err := r.exec.assembler.SetupTransfers(r.quote, r.params)
	if err != nil {
		return err
	}
	r.transfer = transfer
	return nil
}

func (r *execution) setupCase(ctx context.Context) error {
	if !r.params.Atomic() {
		return nil
	}
	if r.exec.notary == nil {
		return NewError(KindValidation, "setupCase", "no notary port configured for atomic payment")
	}
	caseID, err := r.exec.notary.SetupCase(ctx, CaseRequest{
		Notary:           r.params.Notary,
		CaseID:           r.params.CaseID,
		ReceiptCondition: r.params.ReceiptCondition,
		Transfers:        ChainTransferIDs(r.transfer),
		ExpiresAt:        r.exec.assembler.CaseExpiresAt(r.exec.now(), r.transfer, r.quote),
	})
	if err != nil {
		return err
	}
	r.caseID = caseID
	return nil
}

func (r *execution) setupConditions(context.Context) error {
	in := ConditionInput{
		ReceiptCondition: r.params.ReceiptCondition,
		CaseID:           r.caseID,
		Notary:           r.params.Notary,
		NotaryPublicKey:  r.params.NotaryPublicKey,
	}

	// Caller-supplied conditions are authoritative.
	executionCond := r.params.ExecutionCondition
	if executionCond.Empty() {
		executionCond = r.exec.deriver.DeriveExecutionCondition(in)
	}
	opts := ConditionOptions{
		Atomic:             r.params.Atomic(),
		ExecutionCondition: executionCond,
		CaseID:             r.caseID,
	}
	if r.params.Atomic() {
		cancellation := r.params.CancellationCondition
		if cancellation.Empty() {
			cancellation = r.exec.deriver.DeriveCancellationCondition(in)
		}
		opts.CancellationCondition = cancellation
	}

	transfer, err := r.exec.assembler.SetupConditions(r.transfer, opts)
	if err != nil {
		return err
	}
	r.transfer = transfer
	return nil
}

func (r *execution) submit(ctx context.Context) error {
	const op = "submitTransfer"

	// Resolve the debited account's ledger-side identity; basic
	// credentials without a username authenticate as that identity.
	account, err := r.exec.gateway.ResolveAccount(ctx, r.params.SourceAccount)
	if err != nil {
		return stamp(err, op, KindResolution)
	}
	cred := r.params.Credential
	if basic, ok := cred.(domain.BasicCredential); ok && basic.Username == "" {
		basic.Username = account.Name
		cred = basic
	}

	submitted, err := r.exec.gateway.SubmitTransfer(ctx, r.transfer, cred)
	if err != nil {
		return stamp(err, op, KindSubmission)
	}
	r.transfer = submitted

	slog.Info("transfer submitted",
		"transfer", submitted.ID,
		"state", submitted.State,
		"atomic", r.params.Atomic(),
	)
	return nil
}

func quoteRequest(p *Params) QuoteRequest {
	return QuoteRequest{
		SourceAccount:      p.SourceAccount,
		DestinationAccount: p.DestinationAccount,
		Amount:             p.Amount,
	}
}
