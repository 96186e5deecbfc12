package handler

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sesv2types "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// DeliveryResult holds the ID the provider assigned to a forwarded message.
type DeliveryResult struct {
	MessageId string
}

// Relay sends an OutboundMessage to its destination. Failures are returned
// as *RelayError.
type Relay interface {
	Send(context.Context, *OutboundMessage) (*DeliveryResult, error)
}

type SesApi interface {
	SendRawEmail(
		context.Context, *ses.SendRawEmailInput, ...func(*ses.Options),
	) (*ses.SendRawEmailOutput, error)
}

type SesV2Api interface {
	SendEmail(
		context.Context, *sesv2.SendEmailInput, ...func(*sesv2.Options),
	) (*sesv2.SendEmailOutput, error)
}

// SesRelay sends through the SES v1 SendRawEmail API.
type SesRelay struct {
	Client           SesApi
	ConfigurationSet string
}

func (r *SesRelay) Send(
	ctx context.Context, msg *OutboundMessage,
) (*DeliveryResult, error) {
	input := &ses.SendRawEmailInput{
		Source:               optionalString(msg.Source),
		Destinations:         []string{msg.Destination},
		ConfigurationSetName: optionalString(r.ConfigurationSet),
		RawMessage:           &sestypes.RawMessage{Data: msg.RawData},
	}

	output, err := r.Client.SendRawEmail(ctx, input)
	if err != nil {
		return nil, newRelayError(err)
	}
	return &DeliveryResult{MessageId: aws.ToString(output.MessageId)}, nil
}

// SesV2Relay sends through the SES v2 SendEmail API with raw content.
type SesV2Relay struct {
	Client           SesV2Api
	ConfigurationSet string
}

func (r *SesV2Relay) Send(
	ctx context.Context, msg *OutboundMessage,
) (*DeliveryResult, error) {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: optionalString(msg.Source),
		Destination: &sesv2types.Destination{
			ToAddresses: []string{msg.Destination},
		},
		ConfigurationSetName: optionalString(r.ConfigurationSet),
		Content: &sesv2types.EmailContent{
			Raw: &sesv2types.RawMessage{Data: msg.RawData},
		},
	}

	output, err := r.Client.SendEmail(ctx, input)
	if err != nil {
		return nil, newRelayError(err)
	}
	return &DeliveryResult{MessageId: aws.ToString(output.MessageId)}, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}
