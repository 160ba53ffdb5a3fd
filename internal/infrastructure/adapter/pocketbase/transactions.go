package pocketbase

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/bugswriter/bizniz-api/internal/domain/entity"
	errs "github.com/bugswriter/bizniz-api/internal/domain/error"
	"github.com/bugswriter/bizniz-api/internal/domain/port/provider"
)

const transactionsCollection = "transactions"

// TransactionStore implements the append-only audit ledger against the
// PocketBase transactions collection
type TransactionStore struct {
	client *Client
}

// NewTransactionStore creates a PocketBase-backed transaction store
func NewTransactionStore(client *Client) provider.TransactionStore {
	return &TransactionStore{client: client}
}

// transactionRecord mirrors a record of the transactions collection
type transactionRecord struct {
	ID             string  `json:"id"`
	User           string  `json:"user"`
	Type           string  `json:"type"`
	Amount         float64 `json:"amount"`
	Description    string  `json:"description"`
	StripeChargeID string  `json:"stripe_charge_id"`
	Created        string  `json:"created"`
}

func (r *transactionRecord) toEntity() entity.Transaction {
	return entity.Transaction{
		ID:             r.ID,
		UserID:         r.User,
		Type:           entity.TransactionType(r.Type),
		Amount:         r.Amount,
		Description:    r.Description,
		StripeChargeID: r.StripeChargeID,
		Created:        parseTime(r.Created),
	}
}

// transactionListResponse is the payload of the record list endpoint
type transactionListResponse struct {
	Items []transactionRecord `json:"items"`
}

// AppendTransaction creates one audit row; rows are never updated
func (s *TransactionStore) AppendTransaction(ctx context.Context, txn *entity.Transaction) error {
	resp, err := s.client.execAdmin(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetBody(map[string]any{
				"user":             txn.UserID,
				"type":             string(txn.Type),
				"amount":           txn.Amount,
				"description":      txn.Description,
				"stripe_charge_id": txn.StripeChargeID,
			}).
			Post(fmt.Sprintf("/api/collections/%s/records", transactionsCollection))
	})
	if err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	if resp.IsError() {
		apiErr := parseAPIError(resp)
		return fmt.Errorf("append transaction: status %d: %s: %w", apiErr.Code, apiErr.Message, errs.ErrExternalService)
	}
	return nil
}

// ListTransactions returns a user's audit history, newest first
func (s *TransactionStore) ListTransactions(ctx context.Context, userID string) ([]entity.Transaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}

	var result transactionListResponse

	resp, err := s.client.execAdmin(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetQueryParam("filter", fmt.Sprintf("user='%s'", userID)).
			SetQueryParam("sort", "-created").
			SetQueryParam("perPage", "200").
			SetResult(&result).
			Get(fmt.Sprintf("/api/collections/%s/records", transactionsCollection))
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list transactions: status %d: %w", resp.StatusCode(), errs.ErrExternalService)
	}

	transactions := make([]entity.Transaction, 0, len(result.Items))
	for i := range result.Items {
		transactions = append(transactions, result.Items[i].toEntity())
	}
	return transactions, nil
}
