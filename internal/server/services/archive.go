package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/logging"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/adapters"
	sc "github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/config"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
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
)

const snapshotURLTTL = 15 * time.Minute

// snapshot is the archived document: the sync log header plus the feed as
// the adapter returned it after normalization.
type snapshot struct {
	SyncLogID     string                      `json:"syncLogId"`
	ConnectionID  string                      `json:"connectionId"`
	DealerID      string                      `json:"dealerId"`
	ProviderType  models.ProviderType         `json:"providerType"`
	CorrelationID string                      `json:"correlationId"`
	StartedAt     time.Time                   `json:"startedAt"`
	Vehicles      []*adapters.ProviderVehicle `json:"vehicles"`
}

// S3Archiver writes feed snapshots to an S3 compatible bucket.
type S3Archiver struct {
	config *sc.Config
	log    logging.Logger
}

func NewS3Archiver(config *sc.Config, log logging.Logger) *S3Archiver {
	return &S3Archiver{config: config, log: logging.ForModule(log, "archive")}
}

// SnapshotKey is the object key of a sync log's snapshot.
func SnapshotKey(l *models.SyncLog) string {
	d := l.StartedAt.UTC()
	return fmt.Sprintf("snapshots/%s/%d/%d/%d/%s.json", l.DealerID, d.Year(), d.Month(), d.Day(), l.ID)
}

func (a *S3Archiver) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(a.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			a.config.S3RootUser,
			a.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(a.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Archive uploads the snapshot of one sync and returns its key.
func (a *S3Archiver) Archive(ctx context.Context, l *models.SyncLog, items []*adapters.ProviderVehicle) (string, error) {
	body, err := json.Marshal(snapshot{
		SyncLogID:     l.ID,
		ConnectionID:  l.ConnectionID,
		DealerID:      l.DealerID,
		ProviderType:  l.ProviderType,
		CorrelationID: l.CorrelationID,
		StartedAt:     l.StartedAt,
		Vehicles:      items,
	})
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	client, err := a.client(ctx)
	if err != nil {
		return "", fmt.Errorf("s3 client: %w", err)
	}

	key := SnapshotKey(l)
	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.config.S3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put snapshot: %w", err)
	}

	a.log.Debug(ctx, "snapshot stored", "key", key, "bytes", len(body))
	return key, nil
}

// PresignedURL returns a short-lived download link for a snapshot.
func (a *S3Archiver) PresignedURL(ctx context.Context, key string) (string, error) {
	client, err := a.client(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.config.S3Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(snapshotURLTTL))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
