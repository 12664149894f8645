package doshii

import (
	"context"
	"net/http"

	"github.com/agentstation/utc"
)

// TransactionStatus is the lifecycle status of a payment.
type TransactionStatus string

// Transaction statuses.
const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusRequested TransactionStatus = "requested"
	TransactionStatusAccepted  TransactionStatus = "accepted"
	TransactionStatusRejected  TransactionStatus = "rejected"
	TransactionStatusWaiting   TransactionStatus = "waiting"
	TransactionStatusComplete  TransactionStatus = "complete"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// Transaction is a payment against an order.
type Transaction struct {
	ID                 string            `json:"id,omitempty"`
	OrderID            string            `json:"orderId,omitempty"`
	Status             TransactionStatus `json:"status,omitempty"`
	Reference          string            `json:"reference,omitempty"`
	Invoice            string            `json:"invoice,omitempty"`
	Method             string            `json:"method,omitempty"`
	Amount             string            `json:"amount"`
	Tip                string            `json:"tip,omitempty"`
	Trn                string            `json:"trn,omitempty"`
	Prepaid            bool              `json:"prepaid,omitempty"`
	Surcounts          []Surcount        `json:"surcounts,omitempty"`
	PartnerInitiated   bool              `json:"partnerInitiated,omitempty"`
	AcceptLess         bool              `json:"acceptLess,omitempty"`
	RejectionCode      string            `json:"rejectionCode,omitempty"`
	RejectionReason    string            `json:"rejectionReason,omitempty"`
	LinkedTransactions []string          `json:"linkedTrxIds,omitempty"`
	Version            string            `json:"version,omitempty"`
	UpdatedAt          *utc.Time         `json:"updatedAt,omitempty"`
	CreatedAt          *utc.Time         `json:"createdAt,omitempty"`
}

// TransactionService wraps the transactions API. Every call is scoped to a
// location.
type TransactionService struct {
	service
}

// Get returns one transaction.
func (s *TransactionService) Get(ctx context.Context, locationID, transactionID string) (*Transaction, error) {
	return s.one(ctx, locationID, transactionID, http.MethodGet, nil)
}

// Logs returns the audit log of a transaction.
func (s *TransactionService) Logs(ctx context.Context, locationID, transactionID string) ([]LogEntry, error) {
	if err := required("transactionID", transactionID); err != nil {
		return nil, err
	}
	var out []LogEntry
	err := s.do(ctx, call{method: http.MethodGet, path: join("transactions", transactionID, "logs"), location: locationID}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Create records a transaction that is not tied to an order path.
func (s *TransactionService) Create(ctx context.Context, locationID string, txn *Transaction) (*Transaction, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	var out Transaction
	if err := s.do(ctx, call{method: http.MethodPost, path: "/transactions", location: locationID, body: txn}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update changes the status or amounts of a transaction.
func (s *TransactionService) Update(ctx context.Context, locationID, transactionID string, txn *Transaction) (*Transaction, error) {
	return s.one(ctx, locationID, transactionID, http.MethodPut, txn)
}

func (s *TransactionService) one(ctx context.Context, locationID, transactionID, method string, body any) (*Transaction, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	if err := required("transactionID", transactionID); err != nil {
		return nil, err
	}
	var out Transaction
	err := s.do(ctx, call{method: method, path: join("transactions", transactionID), location: locationID, body: body}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
