package server

import (
	"github.com/danielgtaylor/huma/v2"

	v1 "github.com/egdmrsy/TruBudget-SvKit/internal/api/v1"
	"github.com/egdmrsy/TruBudget-SvKit/internal/document"
	"github.com/egdmrsy/TruBudget-SvKit/internal/notification"
	"github.com/egdmrsy/TruBudget-SvKit/internal/resource"
)

func registerAPIRoutes(api huma.API, deps Deps) {
	v1.RegisterResourceRoutes(api, resource.NewService(deps.Ledger, deps.Redactor))
	v1.RegisterDocumentRoutes(api, document.NewService(deps.Ledger, deps.Blobs))
	v1.RegisterNotificationRoutes(api, notification.NewAssembler(deps.Ledger))
}
