package services

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/tembopay/gw-momo-wallet/internal/facades"
	"github.com/tembopay/gw-momo-wallet/internal/logger"
	"github.com/tembopay/gw-momo-wallet/internal/models"
	"github.com/tembopay/gw-momo-wallet/internal/repositories"
)

var (
	// ErrInvalidAmount is returned when the requested amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidDirection is returned for an unknown transaction direction.
	ErrInvalidDirection = errors.New("invalid transaction direction")

	// ErrInvalidPhone is returned when the counterparty phone number is malformed.
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrInsufficientBalance is returned when a withdrawal request exceeds the
	// balance at request time. The balance is re-validated at settle time.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{9,15}$`)

// TransactionWriter defines the write half of the transaction store.
type TransactionWriter interface {
	Insert(ctx context.Context, txn *models.TransactionDB) error
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, next models.Status, fields models.StatusFields) error
}

// TransactionReader defines the read half of the transaction store.
type TransactionReader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.TransactionDB, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.TransactionDB, error)
}

// AccountLedger defines the balance read path and the atomic settlement path.
type AccountLedger interface {
	GetBalance(ctx context.Context, accountID uuid.UUID) (int64, error)
	ApplySettlement(ctx context.Context, accountID uuid.UUID, amountMinor int64, transactionID uuid.UUID) (int64, error)
}

// ProviderGateway defines the external mobile-money provider boundary.
type ProviderGateway interface {
	Submit(ctx context.Context, direction models.Direction, amountMinor int64, phone string, transactionID uuid.UUID) (string, error)
	CheckStatus(ctx context.Context, externalRef string) (models.Status, string, error)
}

// TransactionViewCache caches terminal transaction views.
type TransactionViewCache interface {
	GetView(ctx context.Context, transactionID uuid.UUID) (*models.TransactionView, error)
	SetView(ctx context.Context, view models.TransactionView) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// ReconciliationService orchestrates the transaction lifecycle: it creates
// transactions, drives status polling against the provider, and applies each
// completed transaction to the ledger exactly once. It exclusively owns the
// write path into transaction status and, through the ledger, the balance.
type ReconciliationService struct {
	writeRepo   TransactionWriter
	readRepo    TransactionReader
	ledger      AccountLedger
	provider    ProviderGateway
	cache       TransactionViewCache
	kafkaWriter KafkaWriter
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(
	writeRepo TransactionWriter,
	readRepo TransactionReader,
	ledger AccountLedger,
	provider ProviderGateway,
	cache TransactionViewCache,
	kafkaWriter KafkaWriter,
) *ReconciliationService {
	return &ReconciliationService{
		writeRepo:   writeRepo,
		readRepo:    readRepo,
		ledger:      ledger,
		provider:    provider,
		cache:       cache,
		kafkaWriter: kafkaWriter,
	}
}

// transactionEvent is the Kafka payload published on lifecycle transitions.
type transactionEvent struct {
	TransactionID string `json:"transaction_id"`
	AccountID     string `json:"account_id"`
	Event         string `json:"event"`
	Direction     string `json:"direction"`
	AmountMinor   int64  `json:"amount_minor"`
	Reason        string `json:"reason,omitempty"`
	Timestamp     int64  `json:"timestamp"`
}

// publishEvent publishes a lifecycle event to Kafka.
func (s *ReconciliationService) publishEvent(ctx context.Context, txn *models.TransactionDB, event, reason string) {
	if s.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "transaction_id", txn.TransactionID)
		return
	}

	evt := transactionEvent{
		TransactionID: txn.TransactionID.String(),
		AccountID:     txn.AccountID.String(),
		Event:         event,
		Direction:     string(txn.Direction),
		AmountMinor:   txn.AmountMinor,
		Reason:        reason,
		Timestamp:     time.Now().Unix(),
	}

	data, err := json.Marshal(evt)
	if err != nil {
		logger.Log.Errorw("Failed to marshal transaction event for Kafka", "transaction_id", txn.TransactionID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(evt.TransactionID),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish transaction event to Kafka", "transaction_id", txn.TransactionID, "error", err)
	} else {
		logger.Log.Infow("Transaction event published to Kafka", "transaction_id", txn.TransactionID, "event", event)
	}
}

// cacheView stores a terminal view in the cache, best effort.
func (s *ReconciliationService) cacheView(ctx context.Context, view models.TransactionView) {
	if s.cache == nil || !view.Status.Terminal() {
		return
	}
	if err := s.cache.SetView(ctx, view); err != nil {
		logger.Log.Warnw("failed to cache terminal view", "transaction_id", view.TransactionID, "error", err)
	}
}

// CreateTransaction validates the request, records the pending transaction and
// submits it to the provider. The returned id can be polled immediately; the
// caller never blocks on settlement. When the provider declines or cannot be
// reached the transaction is failed in place and the provider error is
// returned alongside the id.
func (s *ReconciliationService) CreateTransaction(ctx context.Context, accountID uuid.UUID, direction models.Direction, amountMinor int64, phone, provider string) (uuid.UUID, error) {
	if !direction.Valid() {
		return uuid.Nil, ErrInvalidDirection
	}
	if amountMinor <= 0 {
		return uuid.Nil, ErrInvalidAmount
	}
	if !phonePattern.MatchString(phone) {
		return uuid.Nil, ErrInvalidPhone
	}

	if direction == models.DirectionWithdraw {
		// Soft check only: the balance may change before settlement, so the
		// ledger re-validates when the settlement is applied.
		balance, err := s.ledger.GetBalance(ctx, accountID)
		if err != nil {
			logger.Log.Errorw("failed to read balance for withdrawal check", "account_id", accountID, "error", err)
			return uuid.Nil, err
		}
		if amountMinor > balance {
			return uuid.Nil, ErrInsufficientBalance
		}
	}

	txn := &models.TransactionDB{
		TransactionID: uuid.New(),
		AccountID:     accountID,
		Direction:     direction,
		AmountMinor:   amountMinor,
		Phone:         phone,
		Provider:      provider,
		Status:        models.StatusPending,
	}

	if err := s.writeRepo.Insert(ctx, txn); err != nil {
		logger.Log.Errorw("failed to insert transaction", "account_id", accountID, "error", err)
		return uuid.Nil, err
	}

	s.publishEvent(ctx, txn, "created", "")

	externalRef, err := s.provider.Submit(ctx, direction, amountMinor, phone, txn.TransactionID)
	if err != nil {
		// Submit is called exactly once per transaction. Whether the failure
		// is a decline or a transport error the transaction fails here; the
		// provider-side idempotency key makes a duplicate charge impossible
		// if the request did land.
		reason := err.Error()
		s.failPending(ctx, txn, reason)
		return txn.TransactionID, err
	}

	if err := s.attachExternalRef(ctx, txn.TransactionID, externalRef); err != nil {
		return txn.TransactionID, err
	}

	logger.Log.Infow("transaction submitted",
		"transaction_id", txn.TransactionID,
		"account_id", accountID,
		"direction", direction,
		"amount_minor", amountMinor,
		"external_ref", externalRef,
	)
	return txn.TransactionID, nil
}

// attachExternalRef records the provider reference on the pending row. Losing
// the reference would strand the transaction: Poll cannot reconcile a row with
// a NULL external_ref. The write is retried once on transient errors, and the
// final failure logs the reference so it can be re-attached manually.
func (s *ReconciliationService) attachExternalRef(ctx context.Context, id uuid.UUID, externalRef string) error {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		err = s.writeRepo.UpdateStatus(ctx, id, models.StatusPending, models.StatusPending,
			models.StatusFields{ExternalRef: &externalRef})
		if err == nil {
			return nil
		}
		if errors.Is(err, repositories.ErrConflict) {
			// The transaction already went terminal; nothing to attach.
			logger.Log.Infow("attach lost CAS race, transaction already terminal", "transaction_id", id)
			return err
		}
		if attempt == 0 {
			logger.Log.Warnw("failed to attach external reference, retrying",
				"transaction_id", id, "external_ref", externalRef, "error", err)
		}
	}
	logger.Log.Errorw("external reference not recorded, reconcile manually",
		"transaction_id", id, "external_ref", externalRef, "error", err)
	return err
}

// failPending transitions a pending transaction to failed. Losing the CAS race
// is fine: it means a concurrent poll already drove the transaction terminal.
func (s *ReconciliationService) failPending(ctx context.Context, txn *models.TransactionDB, reason string) {
	err := s.writeRepo.UpdateStatus(ctx, txn.TransactionID, models.StatusPending, models.StatusFailed,
		models.StatusFields{FailureReason: &reason})
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			logger.Log.Infow("fail transition lost CAS race, transaction already terminal", "transaction_id", txn.TransactionID)
			return
		}
		logger.Log.Errorw("failed to mark transaction failed", "transaction_id", txn.TransactionID, "error", err)
		return
	}
	s.publishEvent(ctx, txn, "failed", reason)
}

// Poll reconciles one transaction against the provider's view. Terminal
// transactions are returned as-is; provider transport errors are absorbed so
// the caller can simply poll again. Poll never corrupts state when abandoned:
// all mutation funnels through single CAS or ledger commits.
func (s *ReconciliationService) Poll(ctx context.Context, id uuid.UUID) (models.TransactionView, error) {
	if s.cache != nil {
		if view, err := s.cache.GetView(ctx, id); err == nil && view != nil {
			return *view, nil
		}
	}

	txn, err := s.readRepo.Get(ctx, id)
	if err != nil {
		return models.TransactionView{}, err
	}

	if txn.Status.Terminal() {
		view := models.NewTransactionView(txn)
		s.cacheView(ctx, view)
		return view, nil
	}

	if txn.ExternalRef == nil {
		// Still pending without a provider reference: the submit call has not
		// attached one yet, nothing to reconcile.
		return models.NewTransactionView(txn), nil
	}

	state, reason, err := s.provider.CheckStatus(ctx, *txn.ExternalRef)
	if err != nil {
		if errors.Is(err, facades.ErrProviderUnavailable) {
			// Retryable: the caller's polling loop absorbs transport errors.
			logger.Log.Warnw("provider unavailable during poll", "transaction_id", id, "error", err)
			return models.NewTransactionView(txn), nil
		}
		return models.TransactionView{}, err
	}

	switch state {
	case models.StatusCompleted:
		return s.Settle(ctx, id)
	case models.StatusFailed:
		s.failPending(ctx, txn, reason)
		return s.currentView(ctx, id)
	default:
		return models.NewTransactionView(txn), nil
	}
}

// Settle applies the transaction's monetary effect to the account exactly
// once. The pending->completed CAS is the single idempotence boundary: of any
// number of concurrent Settle calls only one commits, and the ledger's
// settlement uniqueness defends independently underneath.
func (s *ReconciliationService) Settle(ctx context.Context, id uuid.UUID) (models.TransactionView, error) {
	txn, err := s.readRepo.Get(ctx, id)
	if err != nil {
		return models.TransactionView{}, err
	}

	if txn.Status.Terminal() {
		view := models.NewTransactionView(txn)
		s.cacheView(ctx, view)
		return view, nil
	}

	_, err = s.ledger.ApplySettlement(ctx, txn.AccountID, txn.SignedAmountMinor(), txn.TransactionID)
	switch {
	case err == nil, errors.Is(err, repositories.ErrAlreadySettled):
		// Applied now, or already applied by a concurrent settle whose CAS
		// has not landed yet. Either way the balance moved exactly once.
	case errors.Is(err, repositories.ErrInsufficientFunds):
		// The balance changed adversely since the request was made. The
		// ledger invariant is authoritative even though the provider
		// confirmed, so the transaction fails.
		logger.Log.Warnw("settlement rejected, balance would go negative", "transaction_id", id, "account_id", txn.AccountID)
		s.failPending(ctx, txn, repositories.ErrInsufficientFunds.Error())
		return s.currentView(ctx, id)
	default:
		logger.Log.Errorw("failed to apply settlement", "transaction_id", id, "error", err)
		return models.TransactionView{}, err
	}

	now := time.Now()
	err = s.writeRepo.UpdateStatus(ctx, id, models.StatusPending, models.StatusCompleted,
		models.StatusFields{CompletedAt: &now})
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			// A concurrent Settle won the CAS; re-read the committed state.
			return s.currentView(ctx, id)
		}
		return models.TransactionView{}, err
	}

	s.publishEvent(ctx, txn, "completed", "")

	return s.currentView(ctx, id)
}

// currentView re-reads the committed transaction state and caches it when
// terminal.
func (s *ReconciliationService) currentView(ctx context.Context, id uuid.UUID) (models.TransactionView, error) {
	txn, err := s.readRepo.Get(ctx, id)
	if err != nil {
		return models.TransactionView{}, err
	}
	view := models.NewTransactionView(txn)
	s.cacheView(ctx, view)
	return view, nil
}

// GetHistory returns the account's transactions, most recent first.
func (s *ReconciliationService) GetHistory(ctx context.Context, accountID uuid.UUID) ([]models.TransactionView, error) {
	txns, err := s.readRepo.ListByAccount(ctx, accountID)
	if err != nil {
		logger.Log.Errorw("failed to list transactions", "account_id", accountID, "error", err)
		return nil, err
	}

	views := make([]models.TransactionView, 0, len(txns))
	for i := range txns {
		views = append(views, models.NewTransactionView(&txns[i]))
	}
	return views, nil
}

// GetBalance returns the current account balance in minor units.
func (s *ReconciliationService) GetBalance(ctx context.Context, accountID uuid.UUID) (int64, error) {
	return s.ledger.GetBalance(ctx, accountID)
}
