package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path"

	"github.com/OFFIS-RIT/neurix/backend/internal/util"
	"github.com/OFFIS-RIT/neurix/backend/pkg/loader"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// UploadPrefix is the key prefix of archived uploads.
const UploadPrefix = "uploads"

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Enabled reports whether an upload bucket is configured.
func Enabled() bool {
	return util.GetEnv("AWS_BUCKET") != ""
}

// NewS3Client creates a path style S3 client from the AWS_* environment
// variables so S3 compatible stores such as MinIO work as well.
func NewS3Client(ctx context.Context) (*s3.Client, error) {
	region := util.GetEnvString("AWS_REGION", "us-east-1")
	endpoint := util.GetEnv("AWS_ENDPOINT")
	accessKey := util.GetEnv("AWS_ACCESS_KEY")
	secretKey := util.GetEnv("AWS_SECRET_KEY")

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(endpoint))
	}
	if accessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return client, nil
}

// Archive stores uploaded files in a bucket.
type Archive struct {
	client s3API
	bucket string
}

// NewArchive creates an Archive writing to bucket.
func NewArchive(client s3API, bucket string) *Archive {
	return &Archive{
		client: client,
		bucket: bucket,
	}
}

// Key returns the object key of an upload named name stored for nodeID.
func Key(nodeID string, name string) string {
	return path.Join(UploadPrefix, nodeID+"."+loader.Extension(name))
}

// PutFile uploads data as the original file of nodeID and returns its key.
func (a *Archive) PutFile(ctx context.Context, nodeID string, name string, data []byte) (string, error) {
	key := Key(nodeID, name)
	mimeType := mime.TypeByExtension("." + loader.Extension(name))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
		Metadata:    map[string]string{"original-name": name},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return key, nil
}

// GetFile downloads the object stored under key.
func (a *Archive) GetFile(ctx context.Context, key string) ([]byte, error) {
	result, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get file from S3: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file contents: %w", err)
	}
	return data, nil
}
