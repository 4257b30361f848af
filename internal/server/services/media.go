package services

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/postplanner/internal/common"
	"github.com/dmitrijs2005/postplanner/internal/dbx"
	sc "github.com/dmitrijs2005/postplanner/internal/server/config"
	"github.com/dmitrijs2005/postplanner/internal/server/models"
	"github.com/dmitrijs2005/postplanner/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// presignExpiry bounds the lifetime of every presigned URL.
const presignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	timeNow = time.Now
)

// PresignedURL is a time-limited URL for one object in the media bucket.
type PresignedURL struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// MediaService hands out presigned S3 URLs for attachments of a post. Object
// keys are recorded in the post's metadata under models.MediaMetadataKey.
type MediaService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewMediaService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *MediaService {
	return &MediaService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

// MediaStorageKey returns a fresh object key for an attachment of postID.
func MediaStorageKey(postID string, d time.Time) string {
	return fmt.Sprintf("posts/%s/%d/%02d/%02d/%v", postID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *MediaService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

func (s *MediaService) checkConfigured() error {
	if s.config == nil || s.config.S3Bucket == "" {
		return common.NewError(common.ErrorMisconfiguration, "Media storage is not configured")
	}
	return nil
}

// PresignUpload reserves a new object key for postID, records it on the post
// and returns a presigned PUT URL for it.
func (s *MediaService) PresignUpload(ctx context.Context, userID, postID, contentType string) (*PresignedURL, error) {
	if err := s.checkConfigured(); err != nil {
		return nil, err
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, internalError(err)
	}

	bucket := s.config.S3Bucket
	now := timeNow()
	key := MediaStorageKey(postID, now)

	in := &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	var result *PresignedURL
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Posts(tx)

		post, err := loadOwnedPost(ctx, repo, userID, postID)
		if err != nil {
			return err
		}

		req, err := presignPutObject(presignClient, ctx, in, s3.WithPresignExpires(presignExpiry))
		if err != nil {
			return err
		}

		post.AddMediaKey(key)
		if _, err := repo.Update(ctx, post); err != nil {
			return err
		}

		result = &PresignedURL{Key: key, URL: req.URL, ExpiresAt: now.Add(presignExpiry)}
		return nil
	})
	if err != nil {
		return nil, serviceError(err)
	}
	return result, nil
}

// PresignDownload returns a presigned GET URL for key, which must be one of
// the media keys recorded on postID and live under that post's prefix.
func (s *MediaService) PresignDownload(ctx context.Context, userID, postID, key string) (*PresignedURL, error) {
	if err := s.checkConfigured(); err != nil {
		return nil, err
	}

	post, err := loadOwnedPost(ctx, s.repomanager.Posts(s.db), userID, postID)
	if err != nil {
		return nil, err
	}
	if !hasMediaKey(post, key) {
		return nil, common.NewError(common.ErrorNotFound, "Media not found")
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, internalError(err)
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, internalError(err)
	}

	return &PresignedURL{Key: key, URL: req.URL, ExpiresAt: timeNow().Add(presignExpiry)}, nil
}

func hasMediaKey(post *models.Post, key string) bool {
	if !strings.HasPrefix(key, "posts/"+post.ID+"/") {
		return false
	}
	return slices.Contains(post.MediaKeys(), key)
}
