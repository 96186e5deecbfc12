package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/brignano/ses-forward-email/handler"
	"github.com/rs/zerolog"
)

func buildRelay(cfg aws.Config, opts *handler.Options) handler.Relay {
	if opts.SesApiVersion == handler.SesApiV2 {
		return &handler.SesV2Relay{
			Client:           sesv2.NewFromConfig(cfg),
			ConfigurationSet: opts.ConfigurationSet,
		}
	}
	return &handler.SesRelay{
		Client:           ses.NewFromConfig(cfg),
		ConfigurationSet: opts.ConfigurationSet,
	}
}

func buildHandler(logger zerolog.Logger) (*handler.Handler, error) {
	opts, err := handler.GetOptions(os.Getenv)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadDefaultConfig(
		context.Background(), config.WithRegion(opts.Region),
	)
	if err != nil {
		return nil, err
	}

	return &handler.Handler{
		S3:      s3.NewFromConfig(cfg),
		Relay:   buildRelay(cfg, opts),
		Options: opts,
		Log:     logger.Level(opts.LogLevel),
	}, nil
}

func main() {
	// No timestamp field. The CloudWatch logs show that the Lambda runtime
	// already adds a timestamp at the beginning of every log line emitted by
	// the function.
	logger := zerolog.New(os.Stdout)

	if h, err := buildHandler(logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize process")
	} else {
		lambda.Start(h.HandleEvent)
	}
}
