package handler

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

type S3Api interface {
	GetObject(
		context.Context, *s3.GetObjectInput, ...func(*s3.Options),
	) (*s3.GetObjectOutput, error)
}

// RawMessage is an original message as SES stored it, along with an S3
// console link to the object for diagnostics.
type RawMessage struct {
	Data     []byte
	Location string
}

func objectKey(prefix, messageId string) string {
	if prefix == "" {
		return messageId
	}
	return prefix + "/" + messageId
}

func consoleUrl(bucket, key, region string) string {
	const consoleFmt = "https://s3.console.aws.amazon.com/s3/object/%s/%s?region=%s"
	return fmt.Sprintf(consoleFmt, bucket, key, region)
}

func (h *Handler) getOriginalMessage(
	ctx context.Context, messageId string, log *zerolog.Logger,
) (*RawMessage, error) {
	key := objectKey(h.Options.IncomingPrefix, messageId)
	location := consoleUrl(h.Options.BucketName, key, h.Options.Region)
	log.Debug().Str("location", location).Msg("getting original message")

	input := &s3.GetObjectInput{Bucket: &h.Options.BucketName, Key: &key}
	data, err := h.readObject(ctx, input)
	if err != nil {
		return nil, &StorageFetchError{
			Bucket: h.Options.BucketName, Key: key, Err: err,
		}
	}

	log.Debug().Int("size", len(data)).Msg("read original message")
	return &RawMessage{Data: data, Location: location}, nil
}

func (h *Handler) readObject(
	ctx context.Context, input *s3.GetObjectInput,
) ([]byte, error) {
	output, err := h.S3.GetObject(ctx, input)
	if err != nil {
		return nil, err
	}
	defer output.Body.Close()
	return io.ReadAll(output.Body)
}
