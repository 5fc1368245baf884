package services

// ServiceContainer bundles every service facade for wiring into handlers and
// workers. ProjectAuth is the same project service exposed through its narrow
// authorization capability; handlers use it to gate project-scoped reads.
type ServiceContainer struct {
	User        UserSvcFacade
	Project     ProjectSvcFacade
	ProjectAuth ProjectAuthorizer
	Transaction TransactionSvcFacade
	Budget      BudgetSvcFacade
	Reporting   ReportingSvcFacade
	APIToken    APITokenSvc
}
