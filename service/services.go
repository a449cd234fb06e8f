// api/service/services.go
package service

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/conditioncraft/composer/api/audit"
	"github.com/conditioncraft/composer/api/config"
	"github.com/conditioncraft/composer/api/dao"
	"github.com/conditioncraft/composer/api/refcheck"
	"github.com/conditioncraft/composer/api/util"
)

type Services struct {
	Session   ISessionService
	Directory IDirectoryService
	Audit     audit.Service
}

func InitializeServices(
	driver neo4j.Driver,
	auditService audit.Service,
	validationUtil *util.ValidationUtil,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) (*Services, error) {
	directoryDAO := dao.NewDirectoryDAO(driver)
	directoryService := NewDirectoryService(directoryDAO, validationUtil, cacheService)

	// The directory doubles as the reference checker unless an
	// external validator endpoint is configured.
	var checker refcheck.Checker = directoryService
	if endpoint := config.GetString("validator.endpoint"); endpoint != "" {
		checker = refcheck.NewHTTPChecker(endpoint)
	}

	services := &Services{
		Session:   NewSessionService(checker, auditService, validationUtil, cacheService, notificationSvc, eventBus),
		Directory: directoryService,
		Audit:     auditService,
	}

	return services, nil
}
