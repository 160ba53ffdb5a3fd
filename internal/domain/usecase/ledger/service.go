package ledger

import (
	"context"
	"fmt"

	"github.com/bugswriter/bizniz-api/internal/domain/entity"
	errs "github.com/bugswriter/bizniz-api/internal/domain/error"
	coreport "github.com/bugswriter/bizniz-api/internal/domain/port/core"
	"github.com/bugswriter/bizniz-api/internal/domain/port/provider"
)

// Service applies coin balance mutations through the user store's atomic
// increment primitives and appends one audit transaction per mutation.
//
// The store's increment carries no conditional guard, so Debit pre-checks the
// balance with a fresh read. Concurrent debits can therefore overdraw in a
// narrow window; this race is tolerated by design. Similarly, if the audit
// write fails after the balance mutation committed, the mutation is not
// rolled back; the gap is logged and accepted rather than solved with
// two-phase commit.
type Service struct {
	users        provider.UserStore
	transactions provider.TransactionStore
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a new ledger service
func NewService(
	users provider.UserStore,
	transactions provider.TransactionStore,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		users:        users,
		transactions: transactions,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Credit increases a user's balance by amount (> 0) and appends one audit
// row with the positive delta.
func (s *Service) Credit(
	ctx context.Context,
	userID string,
	amount float64,
	txnType entity.TransactionType,
	description string,
	stripeChargeID string,
) error {
	txn, err := entity.NewCreditTransaction(userID, txnType, amount, description, stripeChargeID, s.timeProvider)
	if err != nil {
		return err
	}

	if err := s.users.AddCoins(ctx, userID, txn.Amount); err != nil {
		s.logger.Error("Failed to add coins", map[string]any{
			"user_id": userID,
			"amount":  txn.Amount,
			"type":    string(txnType),
			"error":   err.Error(),
		})
		return errs.NewLedgerError(userID, txn.Amount, "credit failed", err)
	}

	s.appendAudit(ctx, txn)

	s.logger.Info("Coins credited", map[string]any{
		"user_id":     userID,
		"amount":      txn.Amount,
		"type":        string(txnType),
		"description": description,
	})
	return nil
}

// Debit decreases a user's balance by amount (> 0) after a fresh balance
// check, and appends one audit row with the negated delta. Returns a detailed
// insufficient-coins error when the balance cannot cover the amount.
func (s *Service) Debit(
	ctx context.Context,
	userID string,
	amount float64,
	description string,
) error {
	txn, err := entity.NewDebitTransaction(userID, amount, description, s.timeProvider)
	if err != nil {
		return err
	}

	// Fresh read; never trust a caller-supplied balance.
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.CanCover(amount) {
		s.logger.Warn("Debit rejected, insufficient coins", map[string]any{
			"user_id":  userID,
			"required": amount,
			"balance":  user.Coins,
		})
		return errs.NewInsufficientCoinsError(userID, amount, user.Coins)
	}

	if err := s.users.DeductCoins(ctx, userID, amount); err != nil {
		s.logger.Error("Failed to deduct coins", map[string]any{
			"user_id": userID,
			"amount":  amount,
			"error":   err.Error(),
		})
		return errs.NewLedgerError(userID, amount, "debit failed", err)
	}

	s.appendAudit(ctx, txn)

	s.logger.Info("Coins debited", map[string]any{
		"user_id":     userID,
		"amount":      amount,
		"description": description,
	})
	return nil
}

// RecordBonus appends a bonus audit row without touching the balance. Used
// at registration, where the store already sets the starting balance on the
// created record.
func (s *Service) RecordBonus(ctx context.Context, userID string, amount float64, description string) error {
	txn, err := entity.NewCreditTransaction(userID, entity.TypeBonus, amount, description, "", s.timeProvider)
	if err != nil {
		return err
	}
	if err := s.transactions.AppendTransaction(ctx, txn); err != nil {
		return fmt.Errorf("failed to record bonus transaction: %w", err)
	}
	return nil
}

// History returns a user's audit ledger, newest first
func (s *Service) History(ctx context.Context, userID string) ([]entity.Transaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	return s.transactions.ListTransactions(ctx, userID)
}

// appendAudit writes the audit row for a committed balance mutation. The
// mutation is already durable at this point, so a failed write is logged and
// swallowed: the balance stays correct and the audit gap is the accepted
// inconsistency window.
func (s *Service) appendAudit(ctx context.Context, txn *entity.Transaction) {
	if err := s.transactions.AppendTransaction(ctx, txn); err != nil {
		s.logger.Error("Audit transaction write failed after balance mutation", map[string]any{
			"user_id": txn.UserID,
			"amount":  txn.Amount,
			"type":    string(txn.Type),
			"error":   err.Error(),
		})
	}
}
