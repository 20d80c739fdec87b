package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// Login opens a session for a registered user. The session id is sent
// both in the payload (for bearer header usage) and as a cookie so
// browser clients keep working without extra plumbing.
func (api *APIHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	login := LoginRequest{}
	requestID := GetValueFromContext(r.Context(), ContextRequestID)

	err := DecodeRequestBody(r, &login)
	if err != nil {
		api.logger.Error("failed to login", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to login", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	err = ValidateLoginRequestBody(&login)
	if err != nil {
		errResp := NewAPIError(requestID, http.StatusBadRequest, err.Error(), EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	session, err := api.sessionService.Login(r.Context(), login.Username, login.Password)
	if err == ErrInvalidCredentials {
		api.logger.Info("rejected login", zap.String("username", login.Username), zap.String("request.id", requestID), zap.String("source.ip", GetRequestSourceIP(r)))
		errResp := NewAPIError(requestID, http.StatusUnauthorized, ErrInvalidCredentials.Error(), EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to login", zap.String("username", login.Username), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to login", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     api.config.Session.CookieName,
		Value:    session.ID,
		Path:     "/",
		MaxAge:   int(api.config.Session.TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	api.logger.Info("success to login", zap.String("user.id", session.UserID), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusCreated, "Session opened successfully.", nil, session)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// Logout destroys the calling session and expires its cookie.
func (api *APIHandler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	session, _ := GetSessionFromContext(r.Context())

	if err := api.sessionService.Logout(r.Context(), session.ID); err != nil {
		api.logger.Error("failed to logout", zap.String("session.id", session.ID), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to logout", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     api.config.Session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	api.logger.Info("success to logout", zap.String("user.id", session.UserID), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "Session closed successfully.", nil, EmptyData)
	if err := WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
