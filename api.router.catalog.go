package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupCatalogRoutes injects catalog browsing and administration endpoints.
func (api *APIHandler) SetupCatalogRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/", m.public(api.Index))
	router.GET("/status", m.public(api.Status))
	router.GET("/v1/catalog", m.public(api.GetHomePage))
	router.GET("/v1/books", m.public(api.GetAllBooks))
	router.GET("/v1/books/:id", m.public(api.GetOneBook))
	router.POST("/v1/books", m.auth(api.CreateBook))
	router.GET("/v1/genres", m.public(api.GetAllGenres))
	router.GET("/v1/languages", m.public(api.GetAllLanguages))
	router.POST("/v1/instances", m.auth(api.CreateBookInstance))
	router.GET("/v1/instances/:id", m.public(api.GetOneBookInstance))
	return router
}
