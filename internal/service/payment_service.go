package service

import (
	"context"
	"fmt"
	"time"

	"erp-backend/internal/model"
	"erp-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreatePaymentRequest struct {
	InvoiceID string `json:"invoice_id" binding:"required"`
	Amount    string `json:"amount" binding:"required"` // decimal string
	Mode      string `json:"mode" binding:"required,oneof=CASH UPI CARD TRANSFER"`
	Note      string `json:"note"`
}

type PaymentResponse struct {
	ID        string `json:"id"`
	InvoiceID string `json:"invoice_id"`
	Amount    string `json:"amount"`
	Mode      string `json:"mode"`
	Note      string `json:"note"`
	CreatedAt string `json:"created_at"`
}

// InvoiceBalanceResponse is the settlement view of one invoice.
type InvoiceBalanceResponse struct {
	InvoiceID   string            `json:"invoice_id"`
	InvoiceNo   string            `json:"invoice_no"`
	Total       string            `json:"total"`
	Paid        string            `json:"paid"`
	Outstanding string            `json:"outstanding"`
	Payments    []PaymentResponse `json:"payments"`
}

// --- Interface ---

type PaymentService interface {
	RecordPayment(ctx context.Context, req CreatePaymentRequest) (PaymentResponse, error)
	GetInvoiceBalance(ctx context.Context, invoiceID string) (InvoiceBalanceResponse, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	invoiceRepo repository.InvoiceRepository
}

func NewPaymentService(paymentRepo repository.PaymentRepository, invoiceRepo repository.InvoiceRepository) PaymentService {
	return &paymentService{paymentRepo: paymentRepo, invoiceRepo: invoiceRepo}
}

// --- Implementation ---

func (s *paymentService) RecordPayment(ctx context.Context, req CreatePaymentRequest) (PaymentResponse, error) {
	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("invalid amount: %w", err)
	}
	if !amount.IsPositive() {
		return PaymentResponse{}, fmt.Errorf("amount must be greater than zero")
	}

	if _, err := s.invoiceRepo.FindByID(ctx, invoiceID); err != nil {
		return PaymentResponse{}, fmt.Errorf("invoice not found: %w", err)
	}

	payment := model.Payment{
		InvoiceID: invoiceID,
		Amount:    amount,
		Mode:      req.Mode,
		Note:      req.Note,
	}
	if err := s.paymentRepo.Create(ctx, &payment); err != nil {
		return PaymentResponse{}, fmt.Errorf("failed to record payment: %w", err)
	}
	return toPaymentResponse(payment), nil
}

func (s *paymentService) GetInvoiceBalance(ctx context.Context, invoiceID string) (InvoiceBalanceResponse, error) {
	id, err := uuid.Parse(invoiceID)
	if err != nil {
		return InvoiceBalanceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return InvoiceBalanceResponse{}, fmt.Errorf("invoice not found: %w", err)
	}

	payments, err := s.paymentRepo.ListByInvoice(ctx, id)
	if err != nil {
		return InvoiceBalanceResponse{}, fmt.Errorf("failed to fetch payments: %w", err)
	}

	paid, err := s.paymentRepo.SumByInvoice(ctx, id)
	if err != nil {
		return InvoiceBalanceResponse{}, fmt.Errorf("failed to sum payments: %w", err)
	}

	result := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		result = append(result, toPaymentResponse(p))
	}
	return InvoiceBalanceResponse{
		InvoiceID:   invoice.ID.String(),
		InvoiceNo:   invoice.InvoiceNo,
		Total:       invoice.Total.StringFixed(2),
		Paid:        paid.StringFixed(2),
		Outstanding: invoice.Total.Sub(paid).StringFixed(2),
		Payments:    result,
	}, nil
}

// --- Mapping ---

func toPaymentResponse(p model.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID.String(),
		InvoiceID: p.InvoiceID.String(),
		Amount:    p.Amount.StringFixed(2),
		Mode:      p.Mode,
		Note:      p.Note,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}
