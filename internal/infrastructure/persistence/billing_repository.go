package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ridgeline/backend/internal/domain/billing"
	"github.com/ridgeline/backend/internal/domain/shared"
)

// GormRoofMeasurementRepository implements RoofMeasurementRepository using GORM
type GormRoofMeasurementRepository struct {
	db *gorm.DB
}

// NewGormRoofMeasurementRepository creates a new GormRoofMeasurementRepository
func NewGormRoofMeasurementRepository(db *gorm.DB) *GormRoofMeasurementRepository {
	return &GormRoofMeasurementRepository{db: db}
}

// FindByIDForTenant finds a measurement by ID within a tenant
func (r *GormRoofMeasurementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.RoofMeasurement, error) {
	var measurement billing.RoofMeasurement
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&measurement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &measurement, nil
}

// FindByCustomer finds all measurements for a customer, newest first
func (r *GormRoofMeasurementRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]billing.RoofMeasurement, error) {
	var measurements []billing.RoofMeasurement
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		Order("measured_at DESC").
		Find(&measurements).Error; err != nil {
		return nil, err
	}
	return measurements, nil
}

// Save creates or updates a measurement
func (r *GormRoofMeasurementRepository) Save(ctx context.Context, measurement *billing.RoofMeasurement) error {
	return r.db.WithContext(ctx).Save(measurement).Error
}

// Delete removes a measurement within a tenant
func (r *GormRoofMeasurementRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.RoofMeasurement{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

var invoiceSortColumns = map[string]bool{
	"number":     true,
	"status":     true,
	"total":      true,
	"created_at": true,
	"updated_at": true,
}

// FindByIDForTenant finds an invoice with its lines by ID within a tenant
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAllForTenant finds all invoices for a tenant
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := applyFilter(
		r.invoiceQuery(ctx, tenantID, filter).Preload("Lines"),
		filter, invoiceSortColumns, "created_at DESC",
	)
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Count counts invoices for a tenant
func (r *GormInvoiceRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.invoiceQuery(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormInvoiceRepository) invoiceQuery(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&billing.Invoice{}).Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		query = query.Where("number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// NextNumber allocates the next sequential invoice number for a tenant.
// Numbers look like INV-0001; gaps from voided drafts are acceptable.
func (r *GormInvoiceRepository) NextNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%04d", count+1), nil
}

// Save creates or updates an invoice with its lines
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(invoice).Error; err != nil {
			return err
		}
		// Lines are replaced wholesale; drafts are small and edits rare.
		if err := tx.Delete(&billing.InvoiceLine{}, "invoice_id = ?", invoice.ID).Error; err != nil {
			return err
		}
		if len(invoice.Lines) == 0 {
			return nil
		}
		for i := range invoice.Lines {
			invoice.Lines[i].InvoiceID = invoice.ID
		}
		return tx.Create(&invoice.Lines).Error
	})
}

// Ensure the repositories implement their domain interfaces
var (
	_ billing.RoofMeasurementRepository = (*GormRoofMeasurementRepository)(nil)
	_ billing.InvoiceRepository         = (*GormInvoiceRepository)(nil)
)
