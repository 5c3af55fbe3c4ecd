package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"

	"github.com/debemdeboas/draftboard/internal/config"
	"github.com/debemdeboas/draftboard/internal/model"
)

// S3API is the subset of the S3 client used by S3BlogRepository.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3BlogRepository stores one JSON object per blog at <prefix><id>.json.
type S3BlogRepository struct { // implements Store
	client S3API
	bucket string
	prefix string
}

// NewS3BlogRepository builds a client from static credentials. A custom
// endpoint (R2, MinIO) switches to path-style addressing.
func NewS3BlogRepository(ctx context.Context, cfg config.S3Config) (*S3BlogRepository, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "loading S3 configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3BlogRepositoryWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

func NewS3BlogRepositoryWithClient(client S3API, bucket, prefix string) *S3BlogRepository {
	return &S3BlogRepository{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

func (r *S3BlogRepository) key(id model.BlogID) string {
	return r.prefix + string(id) + ".json"
}

func (r *S3BlogRepository) Get(ctx context.Context, id model.BlogID) (*model.Blog, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key(id)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, errors.Wrapf(model.ErrNotFound, "blog %s", id)
		}
		return nil, errors.Wrapf(err, "fetching blog %s", id)
	}
	defer out.Body.Close()

	return decodeBlogObject(out.Body, r.key(id))
}

func decodeBlogObject(body io.Reader, key string) (*model.Blog, error) {
	var blog model.Blog
	if err := json.NewDecoder(body).Decode(&blog); err != nil {
		return nil, errors.Wrapf(err, "decoding object %s", key)
	}
	return &blog, nil
}

func (r *S3BlogRepository) List(ctx context.Context) ([]model.Blog, error) {
	blogs := make([]model.Blog, 0)

	paginator := s3.NewListObjectsV2Paginator(r.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
		Prefix: aws.String(r.prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "listing blog objects")
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, ".json") {
				continue
			}

			id := model.BlogID(strings.TrimSuffix(strings.TrimPrefix(key, r.prefix), ".json"))
			blog, err := r.Get(ctx, id)
			if errors.Is(err, model.ErrNotFound) {
				// Deleted between the listing and the read.
				continue
			}
			if err != nil {
				return nil, err
			}
			blogs = append(blogs, *blog)
		}
	}

	sortByUpdated(blogs)
	return blogs, nil
}

func (r *S3BlogRepository) Put(ctx context.Context, blog *model.Blog) error {
	data, err := json.Marshal(blog)
	if err != nil {
		return errors.Wrap(err, "encoding blog")
	}

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(r.key(blog.ID)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.Wrapf(err, "storing blog %s", blog.ID)
	}

	repoLogger.Debug().Str("blog_id", string(blog.ID)).Str("bucket", r.bucket).Msg("Blog object stored")
	return nil
}

// Delete checks for the object first because S3 deletes of missing keys
// succeed silently.
func (r *S3BlogRepository) Delete(ctx context.Context, id model.BlogID) error {
	_, err := r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key(id)),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return errors.Wrapf(model.ErrNotFound, "blog %s", id)
		}
		return errors.Wrapf(err, "checking blog %s", id)
	}

	_, err = r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key(id)),
	})
	if err != nil {
		return errors.Wrapf(err, "deleting blog %s", id)
	}
	return nil
}

func (r *S3BlogRepository) Close() error {
	return nil
}
