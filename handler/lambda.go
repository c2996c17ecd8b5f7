package handler

import (
	"context"
	"encoding/base64"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"github.com/qowq/IBuddy/internal/usecase"
)

// Handle is the API Gateway proxy entry point. The route is taken from the
// last path segment so both /chat and /.netlify/functions/chat style paths
// resolve.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	correlationID := correlationIDFromHeaders(event.Headers)
	route := routeFromPath(event.Path)

	var resp Response
	body, err := eventBody(event)
	if err != nil {
		resp = jsonResponse(http.StatusInternalServerError, errorResponse{Error: msgInternal})
		resp.Headers[headerCorrelationID] = correlationID
	} else {
		resp = h.Serve(ctx, event.HTTPMethod, route, body, correlationID)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}, nil
}

func routeFromPath(p string) usecase.Route {
	return usecase.Route(path.Base(strings.TrimRight(p, "/")))
}

func eventBody(event events.APIGatewayProxyRequest) ([]byte, error) {
	if !event.IsBase64Encoded {
		return []byte(event.Body), nil
	}
	return base64.StdEncoding.DecodeString(event.Body)
}

func correlationIDFromHeaders(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, headerCorrelationID) && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return uuid.NewString()
}
