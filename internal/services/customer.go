package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/orderdesk-backend/internal/data/aggregates"
	"github.com/yungbote/orderdesk-backend/internal/data/repos"
	domainagg "github.com/yungbote/orderdesk-backend/internal/domain/aggregates"
	"github.com/yungbote/orderdesk-backend/internal/pkg/dbctx"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
)

type CustomerService interface {
	Get(ctx context.Context, taxID string) (*CustomerView, error)
	List(ctx context.Context) ([]CustomerView, error)
	// Delete removes the customer together with its legal identity and
	// detaches its orders.
	Delete(ctx context.Context, taxID string) (domainagg.RemoveIdentityResult, error)
}

type customerService struct {
	db         *gorm.DB
	log        *logger.Logger
	customers  repos.CustomerRepo
	identities repos.LegalIdentityRepo
	identity   domainagg.IdentityAggregate
}

func NewCustomerService(db *gorm.DB, baseLog *logger.Logger, customers repos.CustomerRepo, identities repos.LegalIdentityRepo, identity domainagg.IdentityAggregate) CustomerService {
	return &customerService{
		db:         db,
		log:        baseLog.With("service", "CustomerService"),
		customers:  customers,
		identities: identities,
		identity:   identity,
	}
}

func (s *customerService) Get(ctx context.Context, taxID string) (*CustomerView, error) {
	const op = "Customers.Customer.Get"
	taxID = strings.TrimSpace(taxID)
	dbc := dbctx.Context{Ctx: ctx}
	c, err := s.customers.GetByTaxID(dbc, taxID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if c == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("customer %s not found", taxID), nil)
	}
	li, err := s.identities.GetByTaxID(dbc, taxID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if li == nil {
		s.log.Warn("customer without legal identity", "tax_id", taxID)
	}
	v := customerViewOf(c, li)
	return &v, nil
}

func (s *customerService) List(ctx context.Context) ([]CustomerView, error) {
	rows, err := s.customers.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, aggregates.MapError("Customers.Customer.List", err)
	}
	out := make([]CustomerView, 0, len(rows))
	for _, c := range rows {
		out = append(out, customerViewOf(c, nil))
	}
	return out, nil
}

func (s *customerService) Delete(ctx context.Context, taxID string) (domainagg.RemoveIdentityResult, error) {
	if s.identity == nil {
		return domainagg.RemoveIdentityResult{}, domainagg.NewError(domainagg.CodeInternal, "Customers.Customer.Delete", "identity aggregate not configured", nil)
	}
	res, err := s.identity.Remove(ctx, domainagg.RemoveIdentityInput{TaxID: taxID})
	if err != nil {
		return res, err
	}
	s.log.Info("customer removed", "tax_id", res.TaxID, "detached_orders", res.DetachedOrders)
	return res, nil
}
