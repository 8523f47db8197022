// Package s3test provides an in-memory s3util.ObjectAPI for tests.
package s3test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Object is a stored object as the fake saw it.
type Object struct {
	Data        []byte
	ContentType string
	Tagging     string
}

// Store is a map-backed bucket/key store. The zero value is not usable; call NewStore.
type Store struct {
	mu      sync.Mutex
	objects map[string]Object

	// DenyRead and DenyWrite hold bucket names that answer AccessDenied.
	DenyRead  map[string]bool
	DenyWrite map[string]bool

	Gets int
	Puts int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		objects:   make(map[string]Object),
		DenyRead:  make(map[string]bool),
		DenyWrite: make(map[string]bool),
	}
}

func objectID(bucket, key string) string {
	return bucket + "/" + key
}

// Put seeds an object.
func (s *Store) Put(bucket, key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectID(bucket, key)] = Object{Data: append([]byte(nil), data...)}
}

// Get returns a stored object.
func (s *Store) Get(bucket, key string) (Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[objectID(bucket, key)]
	return obj, ok
}

// Calls returns the total number of GetObject and PutObject calls.
func (s *Store) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Gets + s.Puts
}

func accessDenied() error {
	return &smithy.GenericAPIError{Code: "AccessDenied", Message: "Access Denied"}
}

// GetObject implements s3util.ObjectAPI.
func (s *Store) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Gets++

	bucket, key := aws.ToString(in.Bucket), aws.ToString(in.Key)
	if s.DenyRead[bucket] {
		return nil, accessDenied()
	}
	obj, ok := s.objects[objectID(bucket, key)]
	if !ok {
		return nil, &s3types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(obj.Data)),
		ContentLength: aws.Int64(int64(len(obj.Data))),
	}, nil
}

// PutObject implements s3util.ObjectAPI.
func (s *Store) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Puts++

	bucket, key := aws.ToString(in.Bucket), aws.ToString(in.Key)
	if s.DenyWrite[bucket] {
		return nil, accessDenied()
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	s.objects[objectID(bucket, key)] = Object{
		Data:        data,
		ContentType: aws.ToString(in.ContentType),
		Tagging:     aws.ToString(in.Tagging),
	}
	return &s3.PutObjectOutput{}, nil
}
