package kafka

import (
	"strconv"

	"orderservice/domain/shared"

	"github.com/segmentio/kafka-go"
)

const (
	HeaderRequestID         = "x-request-id"
	HeaderEventType         = "x-event-type"
	HeaderDLTReason         = "dlt-reason"
	HeaderDLTException      = "dlt-exception-message"
	HeaderDLTOriginalTopic  = "dlt-original-topic"
	HeaderDLTOriginalPart   = "dlt-original-partition"
	HeaderDLTOriginalOffset = "dlt-original-offset"
)

func requestIDHeader(requestID string) []kafka.Header {
	if requestID == "" {
		return nil
	}
	return []kafka.Header{{Key: HeaderRequestID, Value: []byte(requestID)}}
}

func eventHeaders(event shared.DomainEvent, requestID string) []kafka.Header {
	return append([]kafka.Header{{Key: HeaderEventType, Value: []byte(event.EventName())}}, requestIDHeader(requestID)...)
}

func headerValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

// deadLetterHeaders keeps the original headers and appends the failure context
func deadLetterHeaders(msg kafka.Message, reason string, cause error) []kafka.Header {
	headers := make([]kafka.Header, 0, len(msg.Headers)+5)
	headers = append(headers, msg.Headers...)
	headers = append(headers,
		kafka.Header{Key: HeaderDLTReason, Value: []byte(reason)},
		kafka.Header{Key: HeaderDLTOriginalTopic, Value: []byte(msg.Topic)},
		kafka.Header{Key: HeaderDLTOriginalPart, Value: []byte(strconv.Itoa(msg.Partition))},
		kafka.Header{Key: HeaderDLTOriginalOffset, Value: []byte(strconv.FormatInt(msg.Offset, 10))},
	)
	if cause != nil {
		headers = append(headers, kafka.Header{Key: HeaderDLTException, Value: []byte(cause.Error())})
	}
	return headers
}
