package customers

import (
	"strings"

	"gorm.io/gorm"

	types "github.com/yungbote/orderdesk-backend/internal/domain"
	"github.com/yungbote/orderdesk-backend/internal/pkg/dbctx"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
)

type CustomerRepo interface {
	Create(dbc dbctx.Context, rows []*types.Customer) ([]*types.Customer, error)

	GetByTaxIDs(dbc dbctx.Context, taxIDs []string) ([]*types.Customer, error)
	GetByTaxID(dbc dbctx.Context, taxID string) (*types.Customer, error)
	ExistsByTaxID(dbc dbctx.Context, taxID string) (bool, error)
	ExistsByEmail(dbc dbctx.Context, email string) (bool, error)
	List(dbc dbctx.Context) ([]*types.Customer, error)

	DeleteByTaxID(dbc dbctx.Context, taxID string) (int64, error)
}

type customerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCustomerRepo(db *gorm.DB, baseLog *logger.Logger) CustomerRepo {
	return &customerRepo{db: db, log: baseLog.With("repo", "CustomerRepo")}
}

func (r *customerRepo) Create(dbc dbctx.Context, rows []*types.Customer) ([]*types.Customer, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Customer{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Omit("LegalIdentity").Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *customerRepo) GetByTaxIDs(dbc dbctx.Context, taxIDs []string) ([]*types.Customer, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Customer
	if len(taxIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("tax_id IN ?", taxIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *customerRepo) GetByTaxID(dbc dbctx.Context, taxID string) (*types.Customer, error) {
	taxID = strings.TrimSpace(taxID)
	if taxID == "" {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Customer
	if err := t.WithContext(dbc.Ctx).Where("tax_id = ?", taxID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.TaxID == "" {
		return nil, nil
	}
	return &row, nil
}

func (r *customerRepo) ExistsByTaxID(dbc dbctx.Context, taxID string) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(dbc.Ctx).Model(&types.Customer{}).Where("tax_id = ?", strings.TrimSpace(taxID)).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *customerRepo) ExistsByEmail(dbc dbctx.Context, email string) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Customer{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *customerRepo) List(dbc dbctx.Context) ([]*types.Customer, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Customer
	if err := t.WithContext(dbc.Ctx).
		Preload("LegalIdentity").
		Order("registered_at ASC, tax_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *customerRepo) DeleteByTaxID(dbc dbctx.Context, taxID string) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).Where("tax_id = ?", strings.TrimSpace(taxID)).Delete(&types.Customer{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
