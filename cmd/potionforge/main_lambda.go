//go:build lambda

package main

import (
	"context"
	"encoding/base64"
	"errors"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"potionforge/internal/config"
	"potionforge/internal/enumerate"
	"potionforge/internal/logging"
	"potionforge/internal/pipeline"
	"potionforge/internal/render"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

// handler accepts a recommend config (YAML or JSON) as the request body and
// responds with the recommendation document.
func handler(_ context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}

	f, err := config.Parse([]byte(body))
	if err != nil {
		return errResp(400, err.Error())
	}
	cfg, err := f.Validate()
	if err != nil {
		return errResp(400, err.Error())
	}

	res, err := pipeline.Run(cfg)
	if errors.Is(err, enumerate.ErrTooManyCombinations) {
		return errResp(400, err.Error())
	}
	if err != nil {
		return errResp(422, err.Error())
	}

	out, err := render.JSON(render.NewDocument(res.RunID, res.Candidates, res.Recommendation.Recipes))
	if err != nil {
		log.Error().Err(err).Msg("[lambda] encode failed")
		return errResp(500, "encode failed")
	}
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: string(out)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := sonic.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	logging.Setup(os.Stderr, false, true)
	lambda.Start(handler)
}
