package services

import (
	"context"

	domainagg "github.com/yungbote/orderdesk-backend/internal/domain/aggregates"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
)

type RegisterIdentityRequest struct {
	TaxID        string `json:"tax_id"`
	LegalAddress string `json:"legal_address"`
	Phone        string `json:"phone"`
	CustomerName string `json:"customer_name"`
}

type IdentityService interface {
	Register(ctx context.Context, req RegisterIdentityRequest) (*CustomerView, error)
	Remove(ctx context.Context, taxID string) (domainagg.RemoveIdentityResult, error)
}

type identityService struct {
	log *logger.Logger
	agg domainagg.IdentityAggregate
}

func NewIdentityService(baseLog *logger.Logger, agg domainagg.IdentityAggregate) IdentityService {
	return &identityService{
		log: baseLog.With("service", "IdentityService"),
		agg: agg,
	}
}

func (s *identityService) Register(ctx context.Context, req RegisterIdentityRequest) (*CustomerView, error) {
	res, err := s.agg.Register(ctx, domainagg.RegisterIdentityInput{
		TaxID:        req.TaxID,
		LegalAddress: req.LegalAddress,
		Phone:        req.Phone,
		CustomerName: req.CustomerName,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("identity registered", "tax_id", res.TaxID)
	return &CustomerView{
		TaxID:        res.TaxID,
		Name:         res.CustomerName,
		Email:        res.Email,
		RegisteredAt: res.RegisteredAt,
		LegalAddress: res.LegalAddress,
		Phone:        res.Phone,
	}, nil
}

func (s *identityService) Remove(ctx context.Context, taxID string) (domainagg.RemoveIdentityResult, error) {
	res, err := s.agg.Remove(ctx, domainagg.RemoveIdentityInput{TaxID: taxID})
	if err != nil {
		return res, err
	}
	s.log.Info("identity removed", "tax_id", res.TaxID, "detached_orders", res.DetachedOrders)
	return res, nil
}
