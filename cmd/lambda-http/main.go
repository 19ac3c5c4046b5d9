package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"sim-backend/internal/bootstrap"
	"sim-backend/internal/shared/config"
	"sim-backend/internal/shared/telemetry"
)

var (
	initOnce  sync.Once
	initErr   error
	ginLambda *ginadapter.GinLambdaV2
)

func initApp() {
	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		initErr = err
		return
	}
	storage := "memory"
	if app.DB != nil {
		storage = "postgres"
	}
	telemetry.Info("lambda.http.ready", map[string]any{
		"env":     cfg.Env,
		"storage": storage,
		"queue":   app.Queue != nil,
	})
	ginLambda = ginadapter.NewV2(app.Router)
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		telemetry.Error("lambda.http.bootstrap_failed", map[string]any{"error": initErr.Error()})
		return errorResponse(http.StatusInternalServerError, "bootstrap_failed", "service unavailable"), initErr
	}
	if ginLambda == nil {
		return errorResponse(http.StatusInternalServerError, "router_not_initialized", "service unavailable"), nil
	}
	return ginLambda.ProxyWithContext(ctx, req)
}

// errorResponse uses the same envelope as the API's JSON errors.
func errorResponse(status int, code, message string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func main() {
	lambda.Start(handler)
}
