package helpers

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// UploadObject streams r into bucket/objectPath with the provided contentType
// and returns the object URL. If reading r fails the upload is aborted and no
// object is created.
func UploadObject(ctx context.Context, client *storage.Client, bucket, objectPath, contentType string, r io.Reader) (string, error) {
	// Close would commit whatever was written; cancel discards it
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wc := client.Bucket(bucket).Object(objectPath).NewWriter(wctx)
	wc.ContentType = contentType
	if _, err := io.Copy(wc, r); err != nil {
		cancel()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return ObjectURL(bucket, objectPath), nil
}

// ObjectURL builds the gs:// URL of an object.
func ObjectURL(bucket, objectPath string) string {
	return fmt.Sprintf("gs://%s/%s", bucket, objectPath)
}
