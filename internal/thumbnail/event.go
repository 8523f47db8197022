package thumbnail

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
)

// ErrMalformedEvent is returned for trigger payloads that do not name a
// source object. The specific cause is wrapped alongside it.
var ErrMalformedEvent = errors.New("malformed trigger event")

var (
	ErrNoRecords     = errors.New("event has no records")
	ErrMissingBucket = errors.New("record has no bucket name")
	ErrMissingKey    = errors.New("record has no object key")
)

// Object identifies one stored object.
type Object struct {
	Bucket string
	Key    string
}

func (o Object) String() string {
	return "s3://" + o.Bucket + "/" + o.Key
}

// ParseEvent decodes a raw S3 notification payload.
func ParseEvent(payload []byte) (events.S3Event, error) {
	var event events.S3Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return events.S3Event{}, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	return event, nil
}

// ObjectFromEvent returns the object named by the first record. Later
// records are not consulted.
func ObjectFromEvent(event events.S3Event) (Object, error) {
	if len(event.Records) == 0 {
		return Object{}, fmt.Errorf("%w: %w", ErrMalformedEvent, ErrNoRecords)
	}

	entity := event.Records[0].S3
	if entity.Bucket.Name == "" {
		return Object{}, fmt.Errorf("%w: %w", ErrMalformedEvent, ErrMissingBucket)
	}
	if entity.Object.Key == "" {
		return Object{}, fmt.Errorf("%w: %w", ErrMalformedEvent, ErrMissingKey)
	}

	// Notification keys are form-encoded: spaces arrive as '+'.
	key, err := url.QueryUnescape(entity.Object.Key)
	if err != nil {
		return Object{}, fmt.Errorf("%w: object key %q: %w", ErrMalformedEvent, entity.Object.Key, err)
	}

	return Object{Bucket: entity.Bucket.Name, Key: key}, nil
}
