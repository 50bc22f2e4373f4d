package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"google.golang.org/api/option"

	"gareport/internal/config"
	"gareport/internal/domain"
)

// Uploader stores one object. Implementations: GCSUploader, S3Uploader,
// AzureUploader.
type Uploader interface {
	Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) error
}

// ObjectWriter serialises the table and uploads it as a single object.
type ObjectWriter struct {
	Uploader Uploader
	Bucket   string
	Key      string
	Format   Format
}

// Write implements domain.TableWriter.
func (ow *ObjectWriter) Write(ctx context.Context, table *domain.StructuredTable) error {
	var buf bytes.Buffer
	if err := newStreamWriter(&buf, ow.Format).Write(ctx, table); err != nil {
		return err
	}
	contentType := "text/csv"
	if ow.Format == FormatJSON {
		contentType = "application/json"
	}
	if err := ow.Uploader.Upload(ctx, ow.Bucket, ow.Key, contentType, bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf("upload %s/%s: %w", ow.Bucket, ow.Key, err)
	}
	return nil
}

func newUploader(ctx context.Context, scheme string, cfg config.StorageConfig) (Uploader, error) {
	switch scheme {
	case "gs":
		return NewGCSUploader(ctx, cfg.GCSCredentialsFile)
	case "s3":
		return NewS3Uploader(cfg)
	case "az":
		return NewAzureUploader(cfg.AzureAccountName, cfg.AzureAccountKey)
	default:
		return nil, domain.ErrValidation("unsupported object store %q", scheme)
	}
}

// === Google Cloud Storage ===

// GCSUploader writes objects to Google Cloud Storage.
type GCSUploader struct {
	client *storage.Client
}

// NewGCSUploader creates a GCS uploader. An empty keyFile falls back to
// application default credentials.
func NewGCSUploader(ctx context.Context, keyFile string) (*GCSUploader, error) {
	var opts []option.ClientOption
	if keyFile != "" {
		opts = append(opts, option.WithAuthCredentialsFile(option.ServiceAccount, keyFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}
	return &GCSUploader{client: client}, nil
}

// Upload implements Uploader.
func (u *GCSUploader) Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) error {
	w := u.client.Bucket(bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// === S3 ===

// S3Uploader writes objects to S3 or an S3-compatible store.
type S3Uploader struct {
	client *s3.Client
}

// NewS3Uploader creates an uploader with static credentials. A custom
// endpoint switches to path-style addressing.
func NewS3Uploader(cfg config.StorageConfig) (*S3Uploader, error) {
	if !cfg.HasS3Config() {
		return nil, domain.ErrValidation("S3 config is incomplete (set S3_KEY_ID, S3_SECRET and S3_REGION)")
	}

	opts := s3.Options{
		Region: *cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			*cfg.S3KeyID, *cfg.S3Secret, "",
		),
	}
	if cfg.S3Endpoint != nil {
		endpoint := *cfg.S3Endpoint
		if !strings.Contains(endpoint, "://") {
			endpoint = "https://" + endpoint
		}
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}
	return &S3Uploader{client: s3.New(opts)}, nil
}

// Upload implements Uploader.
func (u *S3Uploader) Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) error {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	return err
}

// === Azure Blob Storage ===

// AzureUploader writes blobs with shared-key credentials.
type AzureUploader struct {
	client *azblob.Client
}

// NewAzureUploader creates an uploader for the given storage account.
func NewAzureUploader(accountName, accountKey string) (*AzureUploader, error) {
	if accountName == "" || accountKey == "" {
		return nil, domain.ErrValidation("Azure config is incomplete (set AZURE_ACCOUNT_NAME and AZURE_ACCOUNT_KEY)")
	}
	cred, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("create shared key credential: %w", err)
	}
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net", accountName)
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create Azure blob client: %w", err)
	}
	return &AzureUploader{client: client}, nil
}

// Upload implements Uploader.
func (u *AzureUploader) Upload(ctx context.Context, container, key, contentType string, body io.Reader) error {
	_, err := u.client.UploadStream(ctx, container, key, body, &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	return err
}
