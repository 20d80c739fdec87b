package main

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// AuthorsListPath is the view a successful author deletion redirects to.
const AuthorsListPath = "/v1/authors"

// GetAuthorForm serves the pre-filled defaults of the author creation screen.
func (api *APIHandler) GetAuthorForm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	form := AuthorForm{DateOfDeath: DefaultDateOfDeath}
	resp := GenericResponse(requestID, http.StatusOK, "Author form fetched successfully.", nil, form)
	if err := WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// CreateAuthor inserts a new author and redirects to its detail view.
// Librarian only.
func (api *APIHandler) CreateAuthor(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	author := Author{}
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	session, _ := GetSessionFromContext(r.Context())

	err := DecodeRequestBody(r, &author)
	if err != nil {
		api.logger.Error("failed to create author", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to create the author", author)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	err = ValidateAuthorRequestBody(&author)
	if err != nil {
		api.logger.Error("failed to create author", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, err.Error(), author)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	author.ID = api.ids.Generate(AuthorIDPrefix)
	author.CreatedAt = api.clock.Now().UTC().String()
	author.UpdatedAt = author.CreatedAt

	err = api.authorService.Add(r.Context(), session, author.ID, author)
	switch {
	case err == ErrPermissionDenied:
		errResp := NewAPIError(requestID, http.StatusForbidden, "missing permission to create authors", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	case err != nil:
		api.logger.Error("failed to create author", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to create the author", author)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to create author", zap.String("author.id", author.ID), zap.String("request.id", requestID))
	resp := RedirectResponse(requestID, "Author created successfully.", AuthorsListPath+"/"+author.ID, author)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// UpdateAuthor replaces an existing author record data and redirects to
// its detail view. Librarian only.
func (api *APIHandler) UpdateAuthor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	author := Author{}
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	session, _ := GetSessionFromContext(r.Context())
	id := ps.ByName("id")

	err := DecodeRequestBody(r, &author)
	if err != nil {
		api.logger.Error("failed to update author", zap.String("author.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to update the author", author)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	err = ValidateAuthorRequestBody(&author)
	if err != nil {
		api.logger.Error("failed to update author", zap.String("author.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, err.Error(), author)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	author.ID = id
	author.UpdatedAt = api.clock.Now().UTC().String()

	updated, err := api.authorService.Update(r.Context(), session, id, author)
	switch {
	case err == ErrPermissionDenied:
		errResp := NewAPIError(requestID, http.StatusForbidden, "missing permission to update authors", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	case err == ErrNotFoundAuthor:
		errResp := NewAPIError(requestID, http.StatusNotFound, "author does not exist", author)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	case err != nil:
		api.logger.Error("failed to update author", zap.String("author.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to update the author", author)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to update author", zap.String("author.id", id), zap.String("request.id", requestID))
	resp := RedirectResponse(requestID, "Author updated successfully.", AuthorsListPath+"/"+id, updated)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// DeleteAuthor removes an author record and redirects to the authors
// list. Authors still referenced by books cannot be deleted. Librarian only.
func (api *APIHandler) DeleteAuthor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	session, _ := GetSessionFromContext(r.Context())
	id := ps.ByName("id")

	err := api.authorService.Delete(r.Context(), session, id)
	switch {
	case err == ErrPermissionDenied:
		errResp := NewAPIError(requestID, http.StatusForbidden, "missing permission to delete authors", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	case err == ErrNotFoundAuthor:
		errResp := NewAPIError(requestID, http.StatusNotFound, "author does not exist", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	case errors.Is(err, ErrAuthorReferenced):
		api.logger.Error("author still referenced by books", zap.String("author.id", id), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusConflict, ErrAuthorReferenced.Error(), EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	case err != nil:
		api.logger.Error("failed to delete author", zap.String("author.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to delete the author", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to delete author", zap.String("author.id", id), zap.String("request.id", requestID))
	resp := RedirectResponse(requestID, "Author deleted successfully.", AuthorsListPath, EmptyData)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
