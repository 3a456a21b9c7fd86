package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/sirupsen/logrus"
)

type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	UseSSL          bool
}

// Uploader stores one object under key
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte) error
}

// S3Uploader puts backup objects into an S3 compatible bucket
type S3Uploader struct {
	s3Client s3iface.S3API
	bucket   string
	logger   *logrus.Logger
}

// NewS3Uploader S3アップローダーを作成
func NewS3Uploader(config *S3Config, logger *logrus.Logger) (*S3Uploader, error) {
	awsConfig := &aws.Config{
		Region:           aws.String(config.Region),
		Credentials:      credentials.NewStaticCredentials(config.AccessKeyID, config.SecretAccessKey, ""),
		DisableSSL:       aws.Bool(!config.UseSSL),
		S3ForcePathStyle: aws.Bool(true), // MinIOなどのS3互換ストレージ用
	}

	// エンドポイントが指定されている場合（MinIOなど）
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("AWSセッションの作成に失敗: %w", err)
	}

	return &S3Uploader{
		s3Client: s3.New(sess),
		bucket:   config.Bucket,
		logger:   logger,
	}, nil
}

// Upload JSONオブジェクトをS3にアップロード
func (u *S3Uploader) Upload(ctx context.Context, key string, body []byte) error {
	_, err := u.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]*string{
			"upload-time": aws.String(time.Now().Format(time.RFC3339)),
			"source":      aws.String("goal-app"),
		},
	})
	if err != nil {
		return fmt.Errorf("S3アップロードに失敗: %w", err)
	}

	u.logger.WithFields(logrus.Fields{
		"bucket": u.bucket,
		"key":    key,
		"bytes":  len(body),
	}).Info("バックアップをS3にアップロードしました")
	return nil
}
