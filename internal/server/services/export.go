package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/holidaycal/internal/common"
	"github.com/dmitrijs2005/holidaycal/internal/logging"
	sc "github.com/dmitrijs2005/holidaycal/internal/server/config"
	"github.com/dmitrijs2005/holidaycal/internal/server/icsx"
	"github.com/dmitrijs2005/holidaycal/internal/server/models"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	timeNow = time.Now
)

// UserCalendar lists the events of a user's calendar.
type UserCalendar interface {
	UserHolidays(ctx context.Context, userID string) ([]*models.CalendarEvent, error)
}

type ExportResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExportService renders calendars as iCalendar documents and publishes
// snapshots to S3-compatible storage.
type ExportService struct {
	calendar UserCalendar
	config   *sc.Config
	logger   logging.Logger
}

func NewExportService(calendar UserCalendar, config *sc.Config, logger logging.Logger) *ExportService {
	return &ExportService{
		calendar: calendar,
		config:   config,
		logger:   logger.With("module", "export_service"),
	}
}

// PublishEnabled reports whether Publish can be used.
func (s *ExportService) PublishEnabled() bool {
	return s.config.ExportEnabled()
}

// Calendar returns the user's calendar as an .ics document.
func (s *ExportService) Calendar(ctx context.Context, userID string) ([]byte, error) {
	list, err := s.calendar.UserHolidays(ctx, userID)
	if err != nil {
		return nil, err
	}

	data, err := icsx.Bytes("Holidays", list, timeNow())
	if err != nil {
		s.logger.Error(ctx, "Failed to render calendar", "user_id", userID, "error", err)
		return nil, err
	}

	return data, nil
}

// ExportStorageKey returns a fresh object key for a user's calendar snapshot.
func ExportStorageKey(userID string, now time.Time) string {
	return fmt.Sprintf("exports/%s/%d/%02d/%02d/%v.ics", userID, now.Year(), now.Month(), now.Day(), uuid.New())
}

func (s *ExportService) getS3Clients(ctx context.Context) (*s3.Client, *s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return client, newS3PresignClient(client), nil
}

// Publish uploads the user's calendar and returns a presigned download link
// valid for Config.ExportLinkValidity.
func (s *ExportService) Publish(ctx context.Context, userID string) (*ExportResult, error) {
	if !s.PublishEnabled() {
		return nil, common.NewError(common.ErrorInvalidRequest, "Calendar publishing is not configured", nil)
	}

	data, err := s.Calendar(ctx, userID)
	if err != nil {
		return nil, err
	}

	client, presignClient, err := s.getS3Clients(ctx)
	if err != nil {
		s.logger.Error(ctx, "Failed to configure object storage", "error", err)
		return nil, common.NewError(common.ErrorUpstreamUnavailable, "Failed to publish calendar", err)
	}

	now := timeNow()
	bucket := s.config.S3Bucket
	key := ExportStorageKey(userID, now)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String(icsx.ContentType),
	})
	if err != nil {
		s.logger.Error(ctx, "Failed to upload calendar", "user_id", userID, "key", key, "error", err)
		return nil, common.NewError(common.ErrorUpstreamUnavailable, "Failed to publish calendar", err)
	}

	validity := s.config.ExportLinkValidity
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(validity))
	if err != nil {
		s.logger.Error(ctx, "Failed to presign calendar link", "user_id", userID, "key", key, "error", err)
		return nil, common.NewError(common.ErrorUpstreamUnavailable, "Failed to publish calendar", err)
	}

	s.logger.Info(ctx, "Calendar published", "user_id", userID, "key", key)

	return &ExportResult{Key: key, URL: req.URL, ExpiresAt: now.Add(validity).UTC()}, nil
}
