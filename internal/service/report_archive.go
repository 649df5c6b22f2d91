package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/pageza/mealtracker/backend/config"
	"github.com/pageza/mealtracker/backend/internal/models"
)

// ExportURLTTL is how long a presigned export link stays valid.
const ExportURLTTL = 15 * time.Minute

// ErrArchiveDisabled is returned by export when no bucket is configured.
var ErrArchiveDisabled = errors.New("report archive is not configured")

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// ReportArchive copies saved reports to S3 as JSON documents.
type ReportArchive struct {
	objects   objectAPI
	presigner presignAPI
	bucket    string
}

// NewReportArchive returns nil when s3Config is nil; a nil archive is a
// valid, disabled archive.
func NewReportArchive(s3Config *config.S3Config) *ReportArchive {
	if s3Config == nil || s3Config.Client == nil {
		return nil
	}
	return &ReportArchive{
		objects:   s3Config.Client,
		presigner: s3.NewPresignClient(s3Config.Client),
		bucket:    s3Config.BucketName,
	}
}

func (a *ReportArchive) Enabled() bool {
	return a != nil
}

// ObjectKey is the S3 key of an archived report.
func ObjectKey(userID, reportID uuid.UUID) string {
	return fmt.Sprintf("reports/%s/%s.json", userID, reportID)
}

func (a *ReportArchive) Put(ctx context.Context, report *models.Report) error {
	if !a.Enabled() {
		return nil
	}
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = a.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(ObjectKey(report.UserID, report.ID)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload report to S3: %w", err)
	}
	return nil
}

func (a *ReportArchive) Delete(ctx context.Context, userID, reportID uuid.UUID) error {
	if !a.Enabled() {
		return nil
	}
	_, err := a.objects.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(ObjectKey(userID, reportID)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete report from S3: %w", err)
	}
	return nil
}

// ExportURL returns a presigned download link for the archived report.
// Reports whose upload failed, or that were saved before the archive was
// configured, have no object and yield ErrNotFound.
func (a *ReportArchive) ExportURL(ctx context.Context, userID, reportID uuid.UUID) (string, error) {
	if !a.Enabled() {
		return "", ErrArchiveDisabled
	}
	key := ObjectKey(userID, reportID)
	_, err := a.objects.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *s3types.NotFound
		if errors.As(err, &notFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to look up archived report: %w", err)
	}

	req, err := a.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ExportURLTTL))
	if err != nil {
		return "", fmt.Errorf("failed to presign report download: %w", err)
	}
	return req.URL, nil
}
