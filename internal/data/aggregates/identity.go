package aggregates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/orderdesk-backend/internal/data/repos"
	types "github.com/yungbote/orderdesk-backend/internal/domain"
	domainagg "github.com/yungbote/orderdesk-backend/internal/domain/aggregates"
	"github.com/yungbote/orderdesk-backend/internal/domain/customers"
	"github.com/yungbote/orderdesk-backend/internal/domain/outbox"
	"github.com/yungbote/orderdesk-backend/internal/pkg/dbctx"
)

type IdentityAggregateDeps struct {
	Base BaseDeps

	Identities repos.LegalIdentityRepo
	Customers  repos.CustomerRepo
	Orders     repos.OrderRepo
	Outbox     repos.OutboxRepo
}

type identityAggregate struct {
	deps IdentityAggregateDeps
}

func NewIdentityAggregate(deps IdentityAggregateDeps) domainagg.IdentityAggregate {
	deps.Base = deps.Base.withDefaults()
	return &identityAggregate{deps: deps}
}

func (a *identityAggregate) Contract() domainagg.Contract {
	return domainagg.IdentityAggregateContract
}

func (a *identityAggregate) Register(ctx context.Context, in domainagg.RegisterIdentityInput) (domainagg.RegisterIdentityResult, error) {
	const op = "Customers.Identity.Register"
	var out domainagg.RegisterIdentityResult

	taxID := strings.TrimSpace(in.TaxID)
	phone := strings.TrimSpace(in.Phone)
	if !customers.ValidTaxID(taxID) {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "tax_id must be 8 digits followed by a letter", nil)
	}
	if !customers.ValidPhone(phone) {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "phone must be exactly 9 digits", nil)
	}
	if a.deps.Identities == nil || a.deps.Customers == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "identity aggregate repos not configured", nil)
	}

	registeredAt := in.RegisteredAt.UTC()
	if in.RegisteredAt.IsZero() {
		registeredAt = time.Now().UTC()
	}
	email := customers.EmailForTaxID(taxID)

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		exists, err := a.deps.Identities.ExistsByTaxID(dbc, taxID)
		if err != nil {
			return err
		}
		if exists {
			return ConflictError(fmt.Sprintf("legal identity %s already registered", taxID))
		}
		exists, err = a.deps.Customers.ExistsByTaxID(dbc, taxID)
		if err != nil {
			return err
		}
		if exists {
			return ConflictError(fmt.Sprintf("customer %s already registered", taxID))
		}
		exists, err = a.deps.Customers.ExistsByEmail(dbc, email)
		if err != nil {
			return err
		}
		if exists {
			return ConflictError(fmt.Sprintf("email %s already in use", email))
		}

		identity := &types.LegalIdentity{
			TaxID:        taxID,
			LegalAddress: strings.TrimSpace(in.LegalAddress),
			Phone:        phone,
		}
		if _, err := a.deps.Identities.Create(dbc, []*types.LegalIdentity{identity}); err != nil {
			return err
		}
		customer := &types.Customer{
			TaxID:        taxID,
			Name:         strings.TrimSpace(in.CustomerName),
			Email:        email,
			RegisteredAt: registeredAt,
		}
		if _, err := a.deps.Customers.Create(dbc, []*types.Customer{customer}); err != nil {
			return err
		}

		if err := appendEvent(dbc, a.deps.Outbox, outbox.TopicCustomerRegistered, customerKey(taxID), outbox.CustomerRegisteredPayload{
			TaxID:        taxID,
			Name:         customer.Name,
			Email:        email,
			RegisteredAt: registeredAt,
		}); err != nil {
			return err
		}

		out = domainagg.RegisterIdentityResult{
			TaxID:        taxID,
			CustomerName: customer.Name,
			Email:        email,
			LegalAddress: identity.LegalAddress,
			Phone:        identity.Phone,
			RegisteredAt: registeredAt,
		}
		return nil
	})
	if err != nil {
		return domainagg.RegisterIdentityResult{}, err
	}
	return out, nil
}

func (a *identityAggregate) Remove(ctx context.Context, in domainagg.RemoveIdentityInput) (domainagg.RemoveIdentityResult, error) {
	const op = "Customers.Identity.Remove"
	var out domainagg.RemoveIdentityResult

	taxID := strings.TrimSpace(in.TaxID)
	if taxID == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing tax_id", nil)
	}
	if a.deps.Identities == nil || a.deps.Customers == nil || a.deps.Orders == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "identity aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		identity, err := a.deps.Identities.LockByTaxID(dbc, taxID)
		if err != nil {
			return err
		}
		if identity == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("legal identity %s not found", taxID), nil)
		}

		detached, err := a.deps.Orders.ClearCustomer(dbc, taxID)
		if err != nil {
			return err
		}
		if _, err := a.deps.Identities.DeleteByTaxID(dbc, taxID); err != nil {
			return err
		}
		if _, err := a.deps.Customers.DeleteByTaxID(dbc, taxID); err != nil {
			return err
		}

		if err := appendEvent(dbc, a.deps.Outbox, outbox.TopicCustomerRemoved, customerKey(taxID), outbox.CustomerRemovedPayload{
			TaxID:          taxID,
			DetachedOrders: detached,
			RemovedAt:      time.Now().UTC(),
		}); err != nil {
			return err
		}

		out = domainagg.RemoveIdentityResult{TaxID: taxID, DetachedOrders: detached}
		return nil
	})
	if err != nil {
		return domainagg.RemoveIdentityResult{}, err
	}
	return out, nil
}
