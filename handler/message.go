package handler

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/rs/zerolog"
)

// ParsedHeaders holds the headers read from the original message. ReplyTo, Cc,
// and Bcc are only logged; the forwarded message doesn't carry them yet.
type ParsedHeaders struct {
	From    string
	Subject string
	ReplyTo string
	Cc      string
	Bcc     string
}

// OutboundMessage is the forwarded message. Destination is always the
// configured forwarding address.
type OutboundMessage struct {
	Source      string
	Destination string
	RawData     []byte
}

func parseHeaders(h mail.Header) *ParsedHeaders {
	return &ParsedHeaders{
		From:    h.Get("From"),
		Subject: h.Get("Subject"),
		ReplyTo: h.Get("Reply-To"),
		Cc:      h.Get("Cc"),
		Bcc:     h.Get("Bcc"),
	}
}

func (ph *ParsedHeaders) log(log *zerolog.Logger) {
	log.Info().
		Str("from", ph.From).
		Str("subject", ph.Subject).
		Msg("email headers")

	if ph.ReplyTo != "" {
		log.Info().Str("reply_to", ph.ReplyTo).Msg("Reply-To header found")
	}
	if ph.Cc != "" {
		log.Info().Str("cc", ph.Cc).Msg("Cc header found")
	}
	if ph.Bcc != "" {
		log.Info().Str("bcc", ph.Bcc).Msg("Bcc header found")
	}
}

func buildOutbound(
	raw *RawMessage, forwardTo string, log *zerolog.Logger,
) (*OutboundMessage, error) {
	parseErr := func(err error) error {
		return &MessageParseError{Location: raw.Location, Err: err}
	}

	if !utf8.Valid(raw.Data) {
		return nil, parseErr(errors.New("message is not valid UTF-8"))
	}

	entity, err := message.Read(bytes.NewReader(raw.Data))
	if message.IsUnknownCharset(err) {
		log.Warn().Err(err).Msg("unknown charset in message header")
	} else if err != nil {
		return nil, parseErr(err)
	}

	headers := parseHeaders(mail.Header{Header: entity.Header})
	headers.log(log)

	body, err := extractBody(mail.NewReader(entity), log)
	if err != nil {
		return nil, parseErr(err)
	}
	log.Debug().Str("body", body).Msg("extracted message body")

	data, err := composeMessage(forwardTo, headers, body)
	if err != nil {
		return nil, parseErr(err)
	}
	return &OutboundMessage{
		Source: headers.From, Destination: forwardTo, RawData: data,
	}, nil
}

// extractBody returns the first inline text/plain part, or the first inline
// text/* part if there isn't one, with trailing whitespace removed. Every
// other part is dropped.
func extractBody(mr *mail.Reader, log *zerolog.Logger) (string, error) {
	var fallback string
	foundFallback := false

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if message.IsUnknownCharset(err) {
			log.Warn().Err(err).Msg("unknown charset in message part")
		} else if err != nil {
			return "", err
		}
		if part == nil {
			continue
		}

		inline, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		mediaType := partMediaType(inline)
		isPlain := mediaType == "text/plain"

		if !isPlain && (foundFallback || !strings.HasPrefix(mediaType, "text/")) {
			continue
		}

		text, err := readText(part.Body)
		if err != nil {
			return "", err
		} else if isPlain {
			return text, nil
		}
		fallback, foundFallback = text, true
	}
	return fallback, nil
}

func partMediaType(h *mail.InlineHeader) string {
	if t, _, err := h.ContentType(); err == nil && t != "" {
		return strings.ToLower(t)
	}
	return "text/plain"
}

func readText(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	} else if !utf8.Valid(b) {
		return "", errors.New("message body is not valid UTF-8")
	}
	return stripTrailingWhitespace(string(b)), nil
}

func stripTrailingWhitespace(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// composeMessage writes a multipart/mixed message to forwardTo holding body as
// its only text/plain part. From and Subject are copied verbatim when present.
func composeMessage(
	forwardTo string, headers *ParsedHeaders, body string,
) ([]byte, error) {
	var h mail.Header
	h.Set("To", forwardTo)
	if headers.From != "" {
		h.Set("From", headers.From)
	}
	if headers.Subject != "" {
		h.Set("Subject", headers.Subject)
	}

	b := &bytes.Buffer{}
	mw, err := mail.CreateWriter(b, h)
	if err != nil {
		return nil, err
	}

	var inline mail.InlineHeader
	inline.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	w, err := mw.CreateSingleInline(inline)
	if err != nil {
		return nil, err
	} else if _, err = io.WriteString(w, body); err != nil {
		return nil, err
	} else if err = w.Close(); err != nil {
		return nil, err
	} else if err = mw.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
