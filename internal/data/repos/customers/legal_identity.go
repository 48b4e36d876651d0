package customers

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/orderdesk-backend/internal/domain"
	"github.com/yungbote/orderdesk-backend/internal/pkg/dbctx"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
)

type LegalIdentityRepo interface {
	Create(dbc dbctx.Context, rows []*types.LegalIdentity) ([]*types.LegalIdentity, error)

	GetByTaxIDs(dbc dbctx.Context, taxIDs []string) ([]*types.LegalIdentity, error)
	GetByTaxID(dbc dbctx.Context, taxID string) (*types.LegalIdentity, error)
	ExistsByTaxID(dbc dbctx.Context, taxID string) (bool, error)

	LockByTaxID(dbc dbctx.Context, taxID string) (*types.LegalIdentity, error)

	DeleteByTaxID(dbc dbctx.Context, taxID string) (int64, error)
}

type legalIdentityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLegalIdentityRepo(db *gorm.DB, baseLog *logger.Logger) LegalIdentityRepo {
	return &legalIdentityRepo{db: db, log: baseLog.With("repo", "LegalIdentityRepo")}
}

func (r *legalIdentityRepo) Create(dbc dbctx.Context, rows []*types.LegalIdentity) ([]*types.LegalIdentity, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.LegalIdentity{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *legalIdentityRepo) GetByTaxIDs(dbc dbctx.Context, taxIDs []string) ([]*types.LegalIdentity, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.LegalIdentity
	if len(taxIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("tax_id IN ?", taxIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *legalIdentityRepo) GetByTaxID(dbc dbctx.Context, taxID string) (*types.LegalIdentity, error) {
	taxID = strings.TrimSpace(taxID)
	if taxID == "" {
		return nil, nil
	}
	rows, err := r.GetByTaxIDs(dbc, []string{taxID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *legalIdentityRepo) ExistsByTaxID(dbc dbctx.Context, taxID string) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(dbc.Ctx).Model(&types.LegalIdentity{}).Where("tax_id = ?", strings.TrimSpace(taxID)).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *legalIdentityRepo) LockByTaxID(dbc dbctx.Context, taxID string) (*types.LegalIdentity, error) {
	taxID = strings.TrimSpace(taxID)
	if taxID == "" {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.LegalIdentity
	err := t.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tax_id = ?", taxID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.TaxID == "" {
		return nil, nil
	}
	return &row, nil
}

func (r *legalIdentityRepo) DeleteByTaxID(dbc dbctx.Context, taxID string) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).Where("tax_id = ?", strings.TrimSpace(taxID)).Delete(&types.LegalIdentity{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
