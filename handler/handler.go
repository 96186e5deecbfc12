package handler

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog"
)

type Handler struct {
	S3      S3Api
	Relay   Relay
	Options *Options
	Log     zerolog.Logger
}

// HandleEvent forwards the message named by the event's first record. Any
// failure is logged and returned so the invocation is marked as failed.
func (h *Handler) HandleEvent(
	ctx context.Context, e *events.SimpleEmailEvent,
) (*events.SimpleEmailDisposition, error) {
	log := h.invocationLogger(ctx)

	messageId, err := firstMessageId(e)
	if err != nil {
		logFailure(&log, err)
		return nil, err
	}

	log = log.With().Str("message_id", messageId).Logger()
	log.Debug().Interface("record", e.Records[0]).Msg("received SES record")
	log.Info().Msg("forwarding message")

	result, err := h.forward(ctx, messageId, &log)
	if err != nil {
		logFailure(&log, err)
		return nil, err
	}

	log.Info().
		Str("delivery_id", result.MessageId).
		Msg("successfully forwarded message")
	return &events.SimpleEmailDisposition{
		Disposition: events.SimpleEmailContinue,
	}, nil
}

func (h *Handler) forward(
	ctx context.Context, messageId string, log *zerolog.Logger,
) (*DeliveryResult, error) {
	orig, err := h.getOriginalMessage(ctx, messageId, log)
	if err != nil {
		return nil, err
	}

	outbound, err := buildOutbound(orig, h.Options.ForwardingAddress, log)
	if err != nil {
		return nil, err
	}
	return h.Relay.Send(ctx, outbound)
}

func firstMessageId(e *events.SimpleEmailEvent) (string, error) {
	if e == nil || len(e.Records) == 0 {
		return "", &MalformedEventError{Reason: "event contained no records"}
	} else if id := e.Records[0].SES.Mail.MessageID; id != "" {
		return id, nil
	}
	return "", &MalformedEventError{
		Reason: "first record contained no message ID",
	}
}

func (h *Handler) invocationLogger(ctx context.Context) zerolog.Logger {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return h.Log.With().Str("request_id", lc.AwsRequestID).Logger()
	}
	return h.Log
}

func logFailure(log *zerolog.Logger, err error) {
	log.Error().
		Err(err).
		Str("stage", errorStage(err)).
		Msg("failed to forward message")
}
