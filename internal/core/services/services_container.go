package services

import (
	portsrepo "github.com/buildledger/site_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/buildledger/site_ledger_app/internal/core/ports/services"
	"github.com/buildledger/site_ledger_app/internal/platform/config"
)

// NewServiceContainer wires every service with its dependencies. The project
// service doubles as the authorizer for the ledger and budget write paths.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	projectService := NewProjectService(repos.ProjectRepo, repos.UserRepo)
	container.Project = projectService
	container.ProjectAuth = projectService

	container.User = NewUserService(repos.UserRepo)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.ProjectRepo, projectService)
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.ProjectRepo, cfg.Location)
	container.Budget = NewBudgetService(repos.BudgetRepo, projectService, container.Reporting, cfg.Location, cfg.DefaultBudgetPeriod)
	container.APIToken = NewAPITokenService(repos.APITokenRepo, repos.UserRepo, cfg)

	return container
}
