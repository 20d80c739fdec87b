package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupAuthorRoutes injects author browsing and management endpoints.
func (api *APIHandler) SetupAuthorRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/v1/authors", m.public(api.GetAllAuthors))
	router.GET("/v1/authors/:id", m.public(api.GetOneAuthor))
	router.GET("/v1/forms/author", m.auth(api.GetAuthorForm))
	router.POST("/v1/authors", m.auth(api.CreateAuthor))
	router.PUT("/v1/authors/:id", m.auth(api.UpdateAuthor))
	router.DELETE("/v1/authors/:id", m.auth(api.DeleteAuthor))
	return router
}
