package loadgen

import (
	"bytes"
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ReportUploader stores run reports as JSON objects so past runs can be
// compared.
type ReportUploader struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

func NewReportUploader(client *minio.Client, bucket string, logger *zap.Logger) *ReportUploader {
	return &ReportUploader{client: client, bucket: bucket, logger: logger}
}

func (u *ReportUploader) Upload(ctx context.Context, objectName string, report Report) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return exceptions.ErrMinioCreateObject(err, u.bucket)
	}
	if !exists {
		if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
			return exceptions.ErrMinioCreateObject(err, u.bucket)
		}
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	_, err = u.client.PutObject(ctx, u.bucket, objectName, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: constvars.MIMEApplicationJSON,
	})
	if err != nil {
		return exceptions.ErrMinioCreateObject(err, u.bucket)
	}

	u.logger.Info("uploaded run report",
		zap.String("bucket", u.bucket),
		zap.String("object", objectName),
	)
	return nil
}
