// Package uploads issues direct-upload URLs for user images. The server
// never proxies image bytes; clients PUT straight to the object store and
// reference the resulting public URL.
package uploads

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultExpiry = 15 * time.Minute

// DirectUpload is a one-shot grant to upload a single object.
type DirectUpload struct {
	// UploadURL accepts exactly one HTTP PUT until it expires.
	UploadURL string `json:"upload_url"`
	// ImageID is the object key, used to reference the image later.
	ImageID string `json:"image_id"`
	// PublicURL is where the image will be served from once uploaded.
	PublicURL string `json:"public_url"`
}

// Issuer is the seam the API layer depends on; tests substitute a fake.
type Issuer interface {
	CreateDirectUpload(ctx context.Context, filename string) (*DirectUpload, error)
}

// Client issues presigned PUT URLs against a MinIO-compatible store.
type Client struct {
	mc        *minio.Client
	bucket    string
	publicURL string
	expiry    time.Duration
	logger    *slog.Logger
}

var _ Issuer = (*Client)(nil)

// Options configures a Client.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	// PublicURL is the base the bucket is served from, without trailing slash.
	PublicURL string
}

// New creates an upload URL issuer.
func New(opts Options, logger *slog.Logger) (*Client, error) {
	mc, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	return &Client{
		mc:        mc,
		bucket:    opts.Bucket,
		publicURL: strings.TrimRight(opts.PublicURL, "/"),
		expiry:    defaultExpiry,
		logger:    logger,
	}, nil
}

// CreateDirectUpload issues a presigned PUT URL for a fresh object key.
// The key keeps the original file extension so content-type sniffing at
// the serving edge works.
func (c *Client) CreateDirectUpload(ctx context.Context, filename string) (*DirectUpload, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	objectName := fmt.Sprintf("images/%s%s", uuid.New().String(), ext)

	u, err := c.mc.PresignedPutObject(ctx, c.bucket, objectName, c.expiry)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	c.logger.Debug("issued direct upload URL", "object", objectName)

	return &DirectUpload{
		UploadURL: u.String(),
		ImageID:   objectName,
		PublicURL: fmt.Sprintf("%s/%s/%s", c.publicURL, c.bucket, objectName),
	}, nil
}
