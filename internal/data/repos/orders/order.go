package orders

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/orderdesk-backend/internal/domain"
	"github.com/yungbote/orderdesk-backend/internal/pkg/dbctx"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
)

type OrderRepo interface {
	// CreateWithLines inserts the order and its full line set. It is the
	// only write path for order lines.
	CreateWithLines(dbc dbctx.Context, order *types.Order) (*types.Order, error)

	GetByID(dbc dbctx.Context, id int64) (*types.Order, error)
	GetWithCustomer(dbc dbctx.Context, id int64) (*types.Order, error)
	GetWithLines(dbc dbctx.Context, id int64) (*types.Order, error)
	LockByID(dbc dbctx.Context, id int64) (*types.Order, error)

	List(dbc dbctx.Context) ([]*types.Order, error)
	ListByCustomer(dbc dbctx.Context, taxID string) ([]*types.Order, error)

	// ClearCustomer nulls the customer reference on every order of taxID.
	ClearCustomer(dbc dbctx.Context, taxID string) (int64, error)
}

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return &orderRepo{db: db, log: baseLog.With("repo", "OrderRepo")}
}

func (r *orderRepo) CreateWithLines(dbc dbctx.Context, order *types.Order) (*types.Order, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if order == nil {
		return nil, nil
	}
	lines := order.Lines
	order.Lines = nil
	if err := t.WithContext(dbc.Ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		order.Lines = lines
		return nil, err
	}
	for i := range lines {
		lines[i].OrderID = order.ID
	}
	if len(lines) > 0 {
		if err := t.WithContext(dbc.Ctx).Omit(clause.Associations).Create(&lines).Error; err != nil {
			order.Lines = lines
			return nil, err
		}
	}
	order.Lines = lines
	return order, nil
}

func (r *orderRepo) GetByID(dbc dbctx.Context, id int64) (*types.Order, error) {
	if id <= 0 {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Order
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *orderRepo) GetWithCustomer(dbc dbctx.Context, id int64) (*types.Order, error) {
	if id <= 0 {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Order
	if err := t.WithContext(dbc.Ctx).
		Preload("Customer").
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *orderRepo) GetWithLines(dbc dbctx.Context, id int64) (*types.Order, error) {
	if id <= 0 {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Order
	if err := t.WithContext(dbc.Ctx).
		Preload("Customer").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Lines.Item").
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *orderRepo) LockByID(dbc dbctx.Context, id int64) (*types.Order, error) {
	if id <= 0 {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Order
	err := t.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *orderRepo) List(dbc dbctx.Context) ([]*types.Order, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Order
	if err := t.WithContext(dbc.Ctx).
		Preload("Customer").
		Order("created_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) ListByCustomer(dbc dbctx.Context, taxID string) ([]*types.Order, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Order
	taxID = strings.TrimSpace(taxID)
	if taxID == "" {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Preload("Customer").
		Where("customer_tax_id = ?", taxID).
		Order("created_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) ClearCustomer(dbc dbctx.Context, taxID string) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).
		Model(&types.Order{}).
		Where("customer_tax_id = ?", strings.TrimSpace(taxID)).
		Update("customer_tax_id", nil)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
