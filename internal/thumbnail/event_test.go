package thumbnail

import (
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(bucket, key string) events.S3EventRecord {
	var r events.S3EventRecord
	r.S3.Bucket.Name = bucket
	r.S3.Object.Key = key
	return r
}

func TestObjectFromEvent(t *testing.T) {
	obj, err := ObjectFromEvent(events.S3Event{Records: []events.S3EventRecord{
		record("source", "photo.png"),
		record("other", "ignored.png"),
	}})

	require.NoError(t, err)
	assert.Equal(t, Object{Bucket: "source", Key: "photo.png"}, obj)
	assert.Equal(t, "s3://source/photo.png", obj.String())
}

func TestObjectFromEvent_DecodesKey(t *testing.T) {
	obj, err := ObjectFromEvent(events.S3Event{Records: []events.S3EventRecord{
		record("source", "holiday/my+photo%281%29.jpg"),
	}})

	require.NoError(t, err)
	assert.Equal(t, "holiday/my photo(1).jpg", obj.Key)
}

func TestObjectFromEvent_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		event events.S3Event
		cause error
	}{
		{"no records", events.S3Event{}, ErrNoRecords},
		{"empty records", events.S3Event{Records: []events.S3EventRecord{}}, ErrNoRecords},
		{"no bucket", events.S3Event{Records: []events.S3EventRecord{record("", "a.png")}}, ErrMissingBucket},
		{"no key", events.S3Event{Records: []events.S3EventRecord{record("b", "")}}, ErrMissingKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ObjectFromEvent(tt.event)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedEvent))
			assert.True(t, errors.Is(err, tt.cause))
		})
	}
}

func TestObjectFromEvent_BadEscape(t *testing.T) {
	_, err := ObjectFromEvent(events.S3Event{Records: []events.S3EventRecord{record("b", "bad%zz.png")}})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedEvent))
}

func TestParseEvent(t *testing.T) {
	event, err := ParseEvent([]byte(`{"Records":[{"s3":{"bucket":{"name":"src"},"object":{"key":"a.png"}}}]}`))
	require.NoError(t, err)
	require.Len(t, event.Records, 1)
	assert.Equal(t, "src", event.Records[0].S3.Bucket.Name)

	_, err = ParseEvent([]byte(`{"Records": "nope"}`))
	assert.True(t, errors.Is(err, ErrMalformedEvent))
}
