package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/repository"
	"github.com/devstudio-sec/devscan/pkg/utils/errutil"
	"github.com/devstudio-sec/devscan/pkg/utils/logging"
)

// ScanRequest is the body of POST /api/send_query.
type ScanRequest struct {
	RepoURL     string `json:"repo_url"`
	AccessToken string `json:"access_token" masq:"secret"`
}

type PushNotificationRequest struct {
	RepoURL      string `json:"repo_url"`
	AccessToken  string `json:"access_token" masq:"secret"`
	Notification string `json:"notification"`
}

type GetNotificationsRequest struct {
	AccessToken string `json:"access_token" masq:"secret"`
}

type DeleteNotificationRequest struct {
	ID types.NotificationID `json:"id"`
}

// StatusResponse is the body of API responses other than scan results and
// notification lists.
type StatusResponse struct {
	Status       string              `json:"status"`
	Message      string              `json:"message,omitempty"`
	Notification *model.Notification `json:"notification,omitempty"`
}

type NotificationsResponse struct {
	Status        string                `json:"status"`
	Notifications []*model.Notification `json:"notifications"`
}

func errorResponse(message string) *StatusResponse {
	return &StatusResponse{Status: string(model.EnvelopeError), Message: message}
}

func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logging.From(r.Context()).Warn("invalid request body", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}
	return true
}

func missingParameters(w http.ResponseWriter, names ...string) {
	writeJSON(w, http.StatusBadRequest, errorResponse("missing parameters: "+strings.Join(names, ", ")))
}

// writeUseCaseError maps a use case error to a status code.
func writeUseCaseError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, types.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid input"))
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse("notification not found"))
	case errors.Is(err, types.ErrNotConfigured):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse("notification storage is not configured"))
	default:
		errutil.HandleError(r.Context(), "notification request failed", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func handleSendQuery(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScanRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.RepoURL) == "" || req.AccessToken == "" {
			missingParameters(w, "repo_url", "access_token")
			return
		}

		ctx := r.Context()
		credential := types.Credential(req.AccessToken)
		env := uc.RunScan(ctx, &model.RunScanInput{
			RepositoryURL: req.RepoURL,
			Credential:    credential,
		})

		if env.Repository != "" {
			if _, err := uc.NotifyScanResult(ctx, credential, env); err != nil {
				errutil.HandleError(ctx, "failed to store scan notification", err)
			}
		}

		code := http.StatusOK
		if !env.Succeeded() {
			code = http.StatusUnprocessableEntity
		}
		writeJSON(w, code, env)
	}
}

func handlePushNotification(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PushNotificationRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.RepoURL) == "" || req.AccessToken == "" || strings.TrimSpace(req.Notification) == "" {
			missingParameters(w, "repo_url", "access_token", "notification")
			return
		}

		n, err := uc.PushNotification(r.Context(), &model.PushNotificationInput{
			RepositoryURL: req.RepoURL,
			Credential:    types.Credential(req.AccessToken),
			Text:          req.Notification,
		})
		if err != nil {
			writeUseCaseError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, &StatusResponse{
			Status:       string(model.EnvelopeSuccess),
			Message:      "notification stored",
			Notification: n,
		})
	}
}

func handleGetNotifications(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GetNotificationsRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		if req.AccessToken == "" {
			missingParameters(w, "access_token")
			return
		}

		notifications, err := uc.GetNotifications(r.Context(), types.Credential(req.AccessToken))
		if err != nil {
			writeUseCaseError(w, r, err)
			return
		}
		if notifications == nil {
			notifications = []*model.Notification{}
		}

		writeJSON(w, http.StatusOK, &NotificationsResponse{
			Status:        string(model.EnvelopeSuccess),
			Notifications: notifications,
		})
	}
}

func handleDeleteNotification(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DeleteNotificationRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.ID.String()) == "" {
			missingParameters(w, "id")
			return
		}

		if err := uc.DeleteNotification(r.Context(), req.ID); err != nil {
			writeUseCaseError(w, r, goerr.Wrap(err, "failed to delete notification", goerr.V("id", req.ID)))
			return
		}

		writeJSON(w, http.StatusOK, &StatusResponse{
			Status:  string(model.EnvelopeSuccess),
			Message: "notification deleted",
		})
	}
}
