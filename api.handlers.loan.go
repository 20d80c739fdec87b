package main

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// BorrowedListPath is the view a successful renewal redirects to.
const BorrowedListPath = "/v1/borrowed"

// GetMyBorrowedBooks serves the book copies currently on loan to the
// calling user, soonest due first.
func (api *APIHandler) GetMyBorrowedBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	session, _ := GetSessionFromContext(r.Context())

	instances, pagination, err := api.loanService.ListBorrowedByUser(r.Context(), session.UserID, GetPageParam(r))
	if err != nil {
		api.logger.Error("failed to get user borrowed books", zap.String("user.id", session.UserID), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to get your borrowed books", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	resp := PaginatedResponse(requestID, "Borrowed books fetched successfully.", pagination, instances)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetAllBorrowedBooks serves all book copies currently on loan across
// borrowers. Librarian only.
func (api *APIHandler) GetAllBorrowedBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	session, _ := GetSessionFromContext(r.Context())

	instances, pagination, err := api.loanService.ListAllBorrowed(r.Context(), session, GetPageParam(r))
	if err == ErrPermissionDenied {
		errResp := NewAPIError(requestID, http.StatusForbidden, "missing permission to view all borrowed books", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to get all borrowed books", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to get all borrowed books", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	resp := PaginatedResponse(requestID, "Borrowed books fetched successfully.", pagination, instances)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetOneBookInstance serves a single book copy record.
func (api *APIHandler) GetOneBookInstance(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id := ps.ByName("id")
	instance, err := api.catalogService.GetInstance(r.Context(), id)
	if err == ErrNotFoundInstance {
		api.logger.Error("book instance does not exist", zap.String("instance.id", id), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusNotFound, "book instance does not exist", instance)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to get book instance", zap.String("instance.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to get the book instance", instance)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	resp := GenericResponse(requestID, http.StatusOK, "Book instance fetched successfully.", nil, instance)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetRenewalForm serves the renewal screen data of a loaned book copy
// with a proposed date three weeks ahead. Librarian only.
func (api *APIHandler) GetRenewalForm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	session, _ := GetSessionFromContext(r.Context())
	id := ps.ByName("id")

	form, err := api.loanService.GetRenewalForm(r.Context(), session, id)
	switch {
	case err == ErrPermissionDenied:
		errResp := NewAPIError(requestID, http.StatusForbidden, "missing permission to renew book loans", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	case err == ErrNotFoundInstance:
		errResp := NewAPIError(requestID, http.StatusNotFound, "book instance does not exist", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	case err != nil:
		api.logger.Error("failed to get renewal form", zap.String("instance.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to get the renewal form", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	resp := GenericResponse(requestID, http.StatusOK, "Renewal form fetched successfully.", nil, form)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// RenewBookInstance pushes the due back date of a loaned copy to the
// requested date and redirects to the all borrowed books view on
// success. A rejected date comes back with the form data so the client
// can re-render it. Librarian only.
func (api *APIHandler) RenewBookInstance(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	renewal := RenewalRequest{}
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	session, _ := GetSessionFromContext(r.Context())
	id := ps.ByName("id")

	err := DecodeRequestBody(r, &renewal)
	if err != nil {
		api.logger.Error("failed to renew book instance", zap.String("instance.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to renew the book instance", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	instance, err := api.loanService.Renew(r.Context(), session, id, renewal.RenewalDate)
	var invalid fieldError
	switch {
	case err == ErrPermissionDenied:
		errResp := NewAPIError(requestID, http.StatusForbidden, "missing permission to renew book loans", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	case err == ErrNotFoundInstance:
		errResp := NewAPIError(requestID, http.StatusNotFound, "book instance does not exist", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	case errors.As(err, &invalid):
		api.logger.Info("rejected renewal date", zap.String("instance.id", id), zap.String("request.id", requestID), zap.String("reason", invalid.Message))
		errResp := NewAPIError(requestID, http.StatusBadRequest, invalid.Message, RenewalForm{Instance: instance, ProposedDate: renewal.RenewalDate})
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	case err != nil:
		api.logger.Error("failed to renew book instance", zap.String("instance.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to renew the book instance", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to renew book instance", zap.String("instance.id", id), zap.String("due.back", instance.DueBack), zap.String("request.id", requestID))
	resp := RedirectResponse(requestID, "Book instance renewed successfully.", BorrowedListPath, instance)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// LoanBookInstance hands a book copy to a borrower. Librarian only.
func (api *APIHandler) LoanBookInstance(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	loan := LoanRequest{}
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	session, _ := GetSessionFromContext(r.Context())
	id := ps.ByName("id")

	err := DecodeRequestBody(r, &loan)
	if err != nil || len(loan.BorrowerID) == 0 {
		api.logger.Error("failed to loan book instance", zap.String("instance.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "borrowerId is required", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	instance, err := api.loanService.Loan(r.Context(), session, id, loan.BorrowerID, loan.DueBack)
	var invalid fieldError
	switch {
	case err == ErrPermissionDenied:
		errResp := NewAPIError(requestID, http.StatusForbidden, "missing permission to loan book instances", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	case err == ErrNotFoundInstance:
		errResp := NewAPIError(requestID, http.StatusNotFound, "book instance does not exist", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	case err == ErrNotFoundUser:
		errResp := NewAPIError(requestID, http.StatusBadRequest, "borrower does not exist", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	case err == ErrAlreadyOnLoan:
		errResp := NewAPIError(requestID, http.StatusConflict, ErrAlreadyOnLoan.Error(), instance)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	case errors.As(err, &invalid):
		errResp := NewAPIError(requestID, http.StatusBadRequest, invalid.Message, EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	case err != nil:
		api.logger.Error("failed to loan book instance", zap.String("instance.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to loan the book instance", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to loan book instance", zap.String("instance.id", id), zap.String("borrower.id", loan.BorrowerID), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "Book instance loaned successfully.", nil, instance)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// ReturnBookInstance marks a loaned book copy as back on the shelves.
// Librarian only.
func (api *APIHandler) ReturnBookInstance(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	session, _ := GetSessionFromContext(r.Context())
	id := ps.ByName("id")

	instance, err := api.loanService.Return(r.Context(), session, id)
	switch {
	case err == ErrPermissionDenied:
		errResp := NewAPIError(requestID, http.StatusForbidden, "missing permission to return book instances", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	case err == ErrNotFoundInstance:
		errResp := NewAPIError(requestID, http.StatusNotFound, "book instance does not exist", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	case err == ErrInstanceNotOnLoan:
		errResp := NewAPIError(requestID, http.StatusConflict, ErrInstanceNotOnLoan.Error(), instance)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	case err != nil:
		api.logger.Error("failed to return book instance", zap.String("instance.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to return the book instance", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to return book instance", zap.String("instance.id", id), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "Book instance returned successfully.", nil, instance)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
