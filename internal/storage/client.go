package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/lumiforge/vidlinkgen-backend/internal/config"
)

// Client обертка над S3 клиентом
type Client struct {
	s3Client      *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	endpoint      string
}

// NewClient создает новый S3 клиент
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	accessKey := cfg.AWSAccessKeyID
	secretKey := cfg.AWSSecretAccessKey
	bucket := cfg.VideoBucket
	endpoint := cfg.S3Endpoint

	if accessKey == "" || secretKey == "" || bucket == "" {
		return nil, fmt.Errorf("AWS credentials and bucket name must be set")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	presignClient := s3.NewPresignClient(client)

	return &Client{
		s3Client:      client,
		presignClient: presignClient,
		bucket:        bucket,
		endpoint:      endpoint,
	}, nil
}

// PutObject загружает объект потоком. Тело не буферизуется, поэтому подпись payload отключена.
func (c *Client) PutObject(ctx context.Context, input *UploadInput) error {
	if input == nil || input.Key == "" {
		return errors.New("object key is required")
	}

	body := input.Body
	if input.OnProgress != nil {
		body = &progressReader{r: input.Body, total: input.Size, fn: input.OnProgress}
	}

	acl := types.ObjectCannedACLPrivate
	if input.Public {
		acl = types.ObjectCannedACLPublicRead
	}

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(input.Key),
		Body:          body,
		ContentLength: aws.Int64(input.Size),
		ContentType:   aws.String(input.ContentType),
		ACL:           acl,
	}, s3.WithAPIOptions(v4.SwapComputePayloadSHA256ForUnsignedPayloadMiddleware))
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// PublicURL формирует постоянный Virtual-Hosted Style URL: https://bucket.endpoint/key
func (c *Client) PublicURL(key string) string {
	u, err := url.Parse(c.endpoint)
	if err != nil || u.Host == "" {
		return fmt.Sprintf("https://%s.%s/%s", c.bucket, strings.TrimPrefix(strings.TrimPrefix(c.endpoint, "https://"), "http://"), key)
	}

	// Принудительно ставим HTTPS для публичных ссылок
	u.Scheme = "https"
	u.Host = fmt.Sprintf("%s.%s", c.bucket, u.Host)
	u.Path = "/" + strings.TrimPrefix(key, "/")
	return u.String()
}

// GeneratePresignedDownloadURL генерирует URL для скачивания
func (c *Client) GeneratePresignedDownloadURL(ctx context.Context, key string, lifetime time.Duration) (string, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}

	req, err := c.presignClient.PresignGetObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = lifetime
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// SetObjectPublic меняет ACL существующего объекта
func (c *Client) SetObjectPublic(ctx context.Context, key string, public bool) error {
	acl := types.ObjectCannedACLPrivate
	if public {
		acl = types.ObjectCannedACLPublicRead
	}
	_, err := c.s3Client.PutObjectAcl(ctx, &s3.PutObjectAclInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		ACL:    acl,
	})
	return err
}

// DeleteObject удаляет объект из бакета
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("object key is required")
	}

	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	return err
}

type progressReader struct {
	r     io.Reader
	total int64
	sent  atomic.Int64
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.fn(p.sent.Add(int64(n)), p.total)
	}
	return n, err
}
