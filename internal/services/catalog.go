package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yungbote/orderdesk-backend/internal/data/aggregates"
	"github.com/yungbote/orderdesk-backend/internal/data/repos"
	types "github.com/yungbote/orderdesk-backend/internal/domain"
	domainagg "github.com/yungbote/orderdesk-backend/internal/domain/aggregates"
	"github.com/yungbote/orderdesk-backend/internal/pkg/dbctx"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
	"github.com/yungbote/orderdesk-backend/internal/pkg/pointers"
)

// CatalogItemInput creates an item when ID is nil and updates it otherwise.
type CatalogItemInput struct {
	ID          *int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Active      *bool
}

type CatalogService interface {
	ListAll(ctx context.Context) ([]*types.CatalogItem, error)
	ListActive(ctx context.Context) ([]*types.CatalogItem, error)
	SearchByName(ctx context.Context, fragment string, activeOnly bool) ([]*types.CatalogItem, error)
	GetByID(ctx context.Context, id int64) (*types.CatalogItem, error)
	Save(ctx context.Context, in CatalogItemInput) (*types.CatalogItem, error)
	Deactivate(ctx context.Context, id int64) (*types.CatalogItem, error)
}

type catalogService struct {
	db     *gorm.DB
	log    *logger.Logger
	runner aggregates.TxRunner
	items  repos.CatalogItemRepo
}

func NewCatalogService(db *gorm.DB, baseLog *logger.Logger, runner aggregates.TxRunner, items repos.CatalogItemRepo) CatalogService {
	if runner == nil {
		runner = aggregates.NewGormTxRunner(db)
	}
	return &catalogService{
		db:     db,
		log:    baseLog.With("service", "CatalogService"),
		runner: runner,
		items:  items,
	}
}

func (s *catalogService) ListAll(ctx context.Context) ([]*types.CatalogItem, error) {
	out, err := s.items.List(dbctx.Context{Ctx: ctx})
	return out, aggregates.MapError("Catalog.Item.ListAll", err)
}

func (s *catalogService) ListActive(ctx context.Context) ([]*types.CatalogItem, error) {
	out, err := s.items.ListActive(dbctx.Context{Ctx: ctx})
	return out, aggregates.MapError("Catalog.Item.ListActive", err)
}

func (s *catalogService) SearchByName(ctx context.Context, fragment string, activeOnly bool) ([]*types.CatalogItem, error) {
	out, err := s.items.SearchByName(dbctx.Context{Ctx: ctx}, strings.TrimSpace(fragment), activeOnly)
	return out, aggregates.MapError("Catalog.Item.SearchByName", err)
}

func (s *catalogService) GetByID(ctx context.Context, id int64) (*types.CatalogItem, error) {
	const op = "Catalog.Item.GetByID"
	it, err := s.items.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if it == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("item %d does not exist", id), nil)
	}
	return it, nil
}

func (s *catalogService) Save(ctx context.Context, in CatalogItemInput) (*types.CatalogItem, error) {
	const op = "Catalog.Item.Save"
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "name is required", nil)
	}
	if in.Price.IsNegative() {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "price must not be negative", nil)
	}
	if in.Stock < 0 {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "stock must not be negative", nil)
	}
	active := pointers.Deref(in.Active, true)

	var saved *types.CatalogItem
	err := s.runner.InTx(ctx, func(dbc dbctx.Context) error {
		var excludeID int64
		if in.ID != nil {
			excludeID = *in.ID
			existing, err := s.items.GetByID(dbc, excludeID)
			if err != nil {
				return err
			}
			if existing == nil {
				return aggregates.NotFoundError(fmt.Sprintf("item %d does not exist", excludeID))
			}
			saved = existing
		}
		taken, err := s.items.ExistsByNameFold(dbc, name, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return aggregates.ConflictError(fmt.Sprintf("an item named %q already exists", name))
		}

		if saved == nil {
			saved = &types.CatalogItem{}
		}
		saved.Name = name
		saved.Description = strings.TrimSpace(in.Description)
		saved.Price = in.Price.Round(2)
		saved.Stock = in.Stock
		saved.Active = active

		if saved.ID == 0 {
			_, err = s.items.Create(dbc, []*types.CatalogItem{saved})
			return err
		}
		_, err = s.items.Update(dbc, saved)
		return err
	})
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	s.log.Debug("catalog item saved", "item_id", saved.ID, "active", saved.Active)
	return saved, nil
}

func (s *catalogService) Deactivate(ctx context.Context, id int64) (*types.CatalogItem, error) {
	const op = "Catalog.Item.Deactivate"
	dbc := dbctx.Context{Ctx: ctx}
	n, err := s.items.SetActive(dbc, id, false)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if n == 0 {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("item %d does not exist", id), nil)
	}
	return s.GetByID(ctx, id)
}
