// api/controller/controllers.go
package controller

import "github.com/conditioncraft/composer/api/service"

type Controllers struct {
	Session   *SessionController
	Catalog   *CatalogController
	Template  *TemplateController
	Directory *DirectoryController
	Audit     *AuditController
}

func InitializeControllers(services *service.Services) *Controllers {
	return &Controllers{
		Session:   NewSessionController(services.Session),
		Catalog:   NewCatalogController(),
		Template:  NewTemplateController(),
		Directory: NewDirectoryController(services.Directory),
		Audit:     NewAuditController(services.Audit),
	}
}
