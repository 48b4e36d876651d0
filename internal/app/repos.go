package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/orderdesk-backend/internal/data/repos"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
)

type Repos struct {
	Customer      repos.CustomerRepo
	LegalIdentity repos.LegalIdentityRepo
	CatalogItem   repos.CatalogItemRepo
	Order         repos.OrderRepo
	Outbox        repos.OutboxRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Customer:      repos.NewCustomerRepo(db, log),
		LegalIdentity: repos.NewLegalIdentityRepo(db, log),
		CatalogItem:   repos.NewCatalogItemRepo(db, log),
		Order:         repos.NewOrderRepo(db, log),
		Outbox:        repos.NewOutboxRepo(db, log),
	}
}
