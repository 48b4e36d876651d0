package catalog

import (
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/orderdesk-backend/internal/domain"
	"github.com/yungbote/orderdesk-backend/internal/pkg/dbctx"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
)

type CatalogItemRepo interface {
	Create(dbc dbctx.Context, rows []*types.CatalogItem) ([]*types.CatalogItem, error)

	GetByIDs(dbc dbctx.Context, ids []int64) ([]*types.CatalogItem, error)
	GetByID(dbc dbctx.Context, id int64) (*types.CatalogItem, error)
	ExistsByNameFold(dbc dbctx.Context, name string, excludeID int64) (bool, error)
	List(dbc dbctx.Context) ([]*types.CatalogItem, error)
	ListActive(dbc dbctx.Context) ([]*types.CatalogItem, error)
	SearchByName(dbc dbctx.Context, fragment string, activeOnly bool) ([]*types.CatalogItem, error)

	// LockByIDs takes row locks in ascending id order so concurrent writers
	// touching overlapping item sets cannot deadlock.
	LockByIDs(dbc dbctx.Context, ids []int64) ([]*types.CatalogItem, error)

	Update(dbc dbctx.Context, row *types.CatalogItem) (int64, error)
	SetActive(dbc dbctx.Context, id int64, active bool) (int64, error)

	// DecrementStock subtracts qty only while stock stays non-negative.
	// It reports false when the guard rejected the update.
	DecrementStock(dbc dbctx.Context, id int64, qty int) (bool, error)
}

type catalogItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalogItemRepo(db *gorm.DB, baseLog *logger.Logger) CatalogItemRepo {
	return &catalogItemRepo{db: db, log: baseLog.With("repo", "CatalogItemRepo")}
}

func (r *catalogItemRepo) Create(dbc dbctx.Context, rows []*types.CatalogItem) ([]*types.CatalogItem, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.CatalogItem{}, nil
	}
	now := time.Now().UTC()
	for _, row := range rows {
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		row.UpdatedAt = now
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *catalogItemRepo) GetByIDs(dbc dbctx.Context, ids []int64) ([]*types.CatalogItem, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.CatalogItem
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("id IN ?", ids).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *catalogItemRepo) GetByID(dbc dbctx.Context, id int64) (*types.CatalogItem, error) {
	if id <= 0 {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []int64{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *catalogItemRepo) ExistsByNameFold(dbc dbctx.Context, name string, excludeID int64) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx).
		Model(&types.CatalogItem{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *catalogItemRepo) List(dbc dbctx.Context) ([]*types.CatalogItem, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.CatalogItem
	if err := t.WithContext(dbc.Ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *catalogItemRepo) ListActive(dbc dbctx.Context) ([]*types.CatalogItem, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.CatalogItem
	if err := t.WithContext(dbc.Ctx).Where("active = ?", true).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// likeEscaper makes LIKE metacharacters match literally under ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *catalogItemRepo) SearchByName(dbc dbctx.Context, fragment string, activeOnly bool) ([]*types.CatalogItem, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(fragment))) + "%"
	q := t.WithContext(dbc.Ctx).Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var out []*types.CatalogItem
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *catalogItemRepo) LockByIDs(dbc dbctx.Context, ids []int64) ([]*types.CatalogItem, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.CatalogItem
	if len(ids) == 0 {
		return out, nil
	}
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	err := t.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", sorted).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *catalogItemRepo) Update(dbc dbctx.Context, row *types.CatalogItem) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.ID <= 0 {
		return 0, nil
	}
	row.UpdatedAt = time.Now().UTC()
	res := t.WithContext(dbc.Ctx).
		Model(&types.CatalogItem{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"name":        row.Name,
			"description": row.Description,
			"price":       row.Price,
			"stock":       row.Stock,
			"active":      row.Active,
			"updated_at":  row.UpdatedAt,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *catalogItemRepo) SetActive(dbc dbctx.Context, id int64, active bool) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).
		Model(&types.CatalogItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"active":     active,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *catalogItemRepo) DecrementStock(dbc dbctx.Context, id int64, qty int) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if qty <= 0 {
		return false, nil
	}
	res := t.WithContext(dbc.Ctx).
		Model(&types.CatalogItem{}).
		Where("id = ? AND stock >= ?", id, qty).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", qty),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
