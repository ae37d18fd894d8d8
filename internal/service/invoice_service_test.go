package service_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"erp-backend/internal/model"
	"erp-backend/internal/repository"
	"erp-backend/internal/service"
)

// --- Fakes ---

type fakeProductRepo struct {
	products []model.Product
}

func (f *fakeProductRepo) Create(ctx context.Context, p *model.Product) error { return nil }
func (f *fakeProductRepo) Update(ctx context.Context, p *model.Product) error { return nil }
func (f *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error     { return nil }
func (f *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeProductRepo) FindByName(ctx context.Context, name string) (*model.Product, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeProductRepo) List(ctx context.Context, page, limit int, search string) ([]model.Product, int64, error) {
	return f.products, int64(len(f.products)), nil
}
func (f *fakeProductRepo) All(ctx context.Context) ([]model.Product, error) {
	return f.products, nil
}

type fakeInvoiceRepo struct {
	byID          map[uuid.UUID]*model.Invoice
	existingNos   map[string]bool
	createErrs    []error // popped per Create call
	createCalls   int
	existsCalls   int
	lastCreatedNo string
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		byID:        make(map[uuid.UUID]*model.Invoice),
		existingNos: make(map[string]bool),
	}
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, invoice *model.Invoice) error {
	f.createCalls++
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	invoice.ID = uuid.New()
	stored := *invoice
	f.byID[invoice.ID] = &stored
	f.lastCreatedNo = invoice.InvoiceNo
	return nil
}

func (f *fakeInvoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	if inv, ok := f.byID[id]; ok {
		return inv, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInvoiceRepo) List(ctx context.Context, filter repository.InvoiceListFilter) ([]model.Invoice, int64, error) {
	var out []model.Invoice
	for _, inv := range f.byID {
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (f *fakeInvoiceRepo) ExistsByDocNo(ctx context.Context, docNo string) (bool, error) {
	f.existsCalls++
	return f.existingNos[docNo], nil
}

func (f *fakeInvoiceRepo) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	return int64(len(f.byID)), nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func catalogProducts() []model.Product {
	return []model.Product{
		{Name: "dosa", Rate: decimal.NewFromInt(25), GSTRate: 5, Unit: "plate", HSNCode: "2106"},
		{Name: "ghee", Rate: decimal.NewFromInt(450), GSTRate: 12, Unit: "kg", HSNCode: "0405"},
	}
}

func newInvoiceServiceForTest(invoiceRepo *fakeInvoiceRepo) service.InvoiceService {
	return service.NewInvoiceService(
		invoiceRepo,
		&fakeProductRepo{products: catalogProducts()},
		fakeTxManager{},
		"INV",
	)
}

// --- Tests ---

func TestCreateInvoice(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := newInvoiceServiceForTest(repo)

	resp, err := svc.CreateInvoice(context.Background(), service.CreateInvoiceRequest{
		CustomerName: "Sharma Stores",
		Discount:     "5",
		Items: []service.LineItemRequest{
			{Product: "dosa", Qty: "10", ExpiryDate: "2026-03-01"},
			{Product: "ghee", Qty: "2", Rate: "300", ExpiryDate: "2026-03-01"},
		},
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^INV-\d{4}-\d{2}-\d{2}-[0-9A-F]{8}$`), resp.InvoiceNo)
	assert.Equal(t, "Sharma Stores", resp.CustomerName)
	assert.Equal(t, "5.00", resp.DiscountPercent)

	// 262.50 + 672.00 = 934.50; 5% discount → 46.73; total 887.77
	assert.Equal(t, "934.50", resp.TotalInvoiceValue)
	assert.Equal(t, "46.73", resp.DiscountAmount)
	assert.Equal(t, "887.77", resp.Total)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, "262.50", resp.Items[0].InvoiceValue)
	assert.Equal(t, "2106", resp.Items[0].HSNCode)
	assert.Equal(t, "672.00", resp.Items[1].InvoiceValue)

	assert.Equal(t, 1, repo.createCalls)
}

func TestCreateInvoice_ValidationErrors(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := newInvoiceServiceForTest(repo)

	_, err := svc.CreateInvoice(context.Background(), service.CreateInvoiceRequest{
		CustomerName: "",
		Items: []service.LineItemRequest{
			{Product: "unknown", Qty: "0"},
		},
	})
	require.Error(t, err)

	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Errors)
	assert.Contains(t, verr.Errors, "customer name is required")
	assert.Equal(t, 0, repo.createCalls, "invalid drafts must not be persisted")
}

func TestCreateInvoice_HydratedProduct(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := newInvoiceServiceForTest(repo)

	resp, err := svc.CreateInvoice(context.Background(), service.CreateInvoiceRequest{
		CustomerName: "Walk-in",
		Items: []service.LineItemRequest{
			{
				ProductDetails: &service.ProductPayload{
					Name: "mixer", Rate: "300", GSTRate: 12, Unit: "pcs", HSNCode: "8509",
				},
				Qty:        "2",
				ExpiryDate: "2026-03-01",
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "672.00", resp.Total)
	assert.Equal(t, "mixer", resp.Items[0].Product)
}

func TestCreateInvoice_RegeneratesNumberOnDuplicateKey(t *testing.T) {
	repo := newFakeInvoiceRepo()
	repo.createErrs = []error{gorm.ErrDuplicatedKey}
	svc := newInvoiceServiceForTest(repo)

	resp, err := svc.CreateInvoice(context.Background(), service.CreateInvoiceRequest{
		CustomerName: "Sharma Stores",
		Items: []service.LineItemRequest{
			{Product: "dosa", Qty: "1", ExpiryDate: "2026-03-01"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, repo.createCalls, "conflict must trigger one retry")
	assert.Equal(t, repo.lastCreatedNo, resp.InvoiceNo)
}

func TestPreviewInvoice_DoesNotPersist(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := newInvoiceServiceForTest(repo)

	resp, err := svc.PreviewInvoice(context.Background(), service.CreateInvoiceRequest{
		CustomerName: "Sharma Stores",
		Discount:     "5",
		Items: []service.LineItemRequest{
			{Product: "dosa", Qty: "10", ExpiryDate: "2026-03-01"},
			{Product: "ghee", Qty: "2", Rate: "300", ExpiryDate: "2026-03-01"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "887.77", resp.Total)
	assert.Equal(t, 0, repo.createCalls)
	assert.Equal(t, 0, repo.existsCalls)
}

func TestGetGSTBreakdown(t *testing.T) {
	repo := newFakeInvoiceRepo()
	id := uuid.New()
	repo.byID[id] = &model.Invoice{
		ID:        id,
		InvoiceNo: "INV-2025-01-15-AABBCCDD",
		Items: []model.InvoiceItem{
			{ProductName: "dosa", GSTRate: 5, TaxableValue: mustDec("250.00"), GST: mustDec("12.50"), InvoiceValue: mustDec("262.50")},
			{ProductName: "ghee", GSTRate: 12, TaxableValue: mustDec("600.00"), GST: mustDec("72.00"), InvoiceValue: mustDec("672.00")},
			{ProductName: "idli", GSTRate: 5, TaxableValue: mustDec("100.00"), GST: mustDec("5.00"), InvoiceValue: mustDec("105.00")},
		},
	}
	svc := newInvoiceServiceForTest(repo)

	rows, err := svc.GetGSTBreakdown(context.Background(), id.String())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// rows come back sorted by rate
	assert.Equal(t, 5, rows[0].GSTRate)
	assert.Equal(t, "350.00", rows[0].TaxableAmount)
	assert.Equal(t, "17.50", rows[0].GSTAmount)
	assert.Equal(t, "8.75", rows[0].CGST)
	assert.Equal(t, "8.75", rows[0].SGST)
	assert.Equal(t, "17.50", rows[0].IGST)

	assert.Equal(t, 12, rows[1].GSTRate)
	assert.Equal(t, "36.00", rows[1].CGST)
	assert.Equal(t, "36.00", rows[1].SGST)
}

func TestGetInvoice_InvalidID(t *testing.T) {
	svc := newInvoiceServiceForTest(newFakeInvoiceRepo())

	_, err := svc.GetInvoice(context.Background(), "not-a-uuid")
	assert.Error(t, err)
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
