package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupLoanRoutes injects loan queries and renewal workflow endpoints.
func (api *APIHandler) SetupLoanRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/v1/my/books", m.auth(api.GetMyBorrowedBooks))
	router.GET("/v1/borrowed", m.auth(api.GetAllBorrowedBooks))
	router.GET("/v1/instances/:id/renewal", m.auth(api.GetRenewalForm))
	router.POST("/v1/instances/:id/renewal", m.auth(api.RenewBookInstance))
	router.POST("/v1/instances/:id/loan", m.auth(api.LoanBookInstance))
	router.POST("/v1/instances/:id/return", m.auth(api.ReturnBookInstance))
	return router
}
