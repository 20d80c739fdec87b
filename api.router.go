package main

import (
	_ "github.com/jeamon/library-catalog/docs"
	"github.com/julienschmidt/httprouter"
	httpswagger "github.com/swaggo/http-swagger/v2"
)

// SetupRoutes injects catalog, loan, author, session and ops related endpoints if required.
func (api *APIHandler) SetupRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.NotFound = api.NotFound()
	api.SetupCatalogRoutes(router, m)
	api.SetupLoanRoutes(router, m)
	api.SetupAuthorRoutes(router, m)
	if api.config.OpsEndpointsEnable {
		api.SetupOpsRoutes(router, m)
	}
	router.POST("/v1/sessions", m.public(api.Login))
	router.DELETE("/v1/sessions", m.auth(api.Logout))
	router.GET("/swagger/", m.public(api.OpsHandlerWrapper(httpswagger.WrapHandler)))
	return router
}
