package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/egdmrsy/TruBudget-SvKit/internal/notification"
)

type ListNotificationsInput struct {
	Offset int `query:"offset" minimum:"0" default:"0" doc:"Number of newest notifications to skip"`
	Limit  int `query:"limit" minimum:"0" maximum:"500" default:"0" doc:"Page size; 0 returns all"`
}

type ListNotificationsOutput struct {
	Body *notification.Page
}

func RegisterNotificationRoutes(api huma.API, svc NotificationService) {
	huma.Register(api, huma.Operation{
		OperationID: "list-notifications",
		Method:      http.MethodGet,
		Path:        "/notifications",
		Summary:     "List the caller's notifications, newest first",
		Tags:        []string{"Notifications"},
	}, func(ctx context.Context, input *ListNotificationsInput) (*ListNotificationsOutput, error) {
		token, err := callerToken(ctx)
		if err != nil {
			return nil, err
		}

		page, err := svc.List(ctx, token, input.Offset, input.Limit)
		if err != nil {
			return nil, toHTTPError(err, "notifications")
		}

		return &ListNotificationsOutput{Body: page}, nil
	})
}
