package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(params.Bucket) + "/" + aws.ToString(params.Key)
	f.objects[key] = data
	f.types[key] = aws.ToString(params.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestKey(t *testing.T) {
	tests := []struct {
		id, name, want string
	}{
		{"n1", "notes.txt", "uploads/n1.txt"},
		{"n2", "Report.MD", "uploads/n2.md"},
		{"n3", "README", "uploads/n3.bin"},
	}
	for _, tc := range tests {
		if got := Key(tc.id, tc.name); got != tc.want {
			t.Fatalf("Key(%q, %q) = %q, want %q", tc.id, tc.name, got, tc.want)
		}
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	client := newFakeS3()
	a := NewArchive(client, "bucket")

	key, err := a.PutFile(context.Background(), "n1", "notes.txt", []byte("hello"))
	if err != nil {
		t.Fatalf("PutFile() error = %v", err)
	}
	if key != "uploads/n1.txt" {
		t.Fatalf("key = %q", key)
	}
	if ct := client.types["bucket/uploads/n1.txt"]; ct != "text/plain; charset=utf-8" {
		t.Fatalf("content type = %q", ct)
	}

	data, err := a.GetFile(context.Background(), key)
	if err != nil {
		t.Fatalf("GetFile() error = %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("GetFile() = %q", data)
	}
}

func TestArchivePutError(t *testing.T) {
	client := newFakeS3()
	client.putErr = errors.New("access denied")
	a := NewArchive(client, "bucket")

	if _, err := a.PutFile(context.Background(), "n1", "notes.txt", nil); !errors.Is(err, client.putErr) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
