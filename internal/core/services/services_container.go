package services

import (
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// publisher may be nil, in which case no domain events are emitted.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher portssvc.EventPublisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	stockOpts := []StockLedgerOption{}
	salesOpts := []SalesOption{WithTaxRate(cfg.TaxRate)}
	if publisher != nil {
		stockOpts = append(stockOpts, WithStockEventPublisher(publisher))
		salesOpts = append(salesOpts, WithSalesEventPublisher(publisher))
	}

	// The stock ledger is the only writer of stock; catalog and sales go through it
	container.Stock = NewStockLedgerService(repos.StockRepo, stockOpts...)
	container.Price = NewPriceResolver(repos.StockRepo, repos.AccountRepo)
	container.Balance = NewBalanceService(repos.AccountRepo, repos.DocumentRepo)
	container.Credit = NewCreditGuardService(repos.AccountRepo, container.Balance)
	container.Catalog = NewCatalogService(repos.StockRepo, container.Stock)
	container.Sales = NewSalesService(
		repos.AccountRepo,
		repos.StockRepo,
		repos.SalesRepo,
		container.Stock,
		container.Credit,
		salesOpts...,
	)

	return container
}
