package filestore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iamcredentials/v1"
	"google.golang.org/api/option"
)

// SignedUpload is everything a client needs to PUT an attachment directly to
// object storage. The workflow stores only ObjectKey.
type SignedUpload struct {
	UploadURL string            `json:"upload_url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	ObjectKey string            `json:"object_key"`
	ExpiresAt time.Time         `json:"expires_at"`
}

type Store interface {
	SignUpload(ctx context.Context, fileName, contentType string) (*SignedUpload, error)
}

type serviceAccountJSON struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

type gcsStore struct {
	bucket  string
	expires time.Duration
}

func NewGCSStore() (Store, error) {
	bucket := strings.TrimSpace(os.Getenv("GCS_BUCKET"))
	if bucket == "" {
		return nil, errors.New("GCS_BUCKET is required")
	}
	return &gcsStore{bucket: bucket, expires: 15 * time.Minute}, nil
}

func (s *gcsStore) SignUpload(ctx context.Context, fileName, contentType string) (*SignedUpload, error) {
	objectKey := fmt.Sprintf("leave-attachments/%s/%s%s",
		time.Now().UTC().Format("2006/01"),
		uuid.NewString(),
		strings.ToLower(path.Ext(fileName)),
	)

	opts := &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      "PUT",
		Expires:     time.Now().Add(s.expires),
		ContentType: contentType,
	}

	accessID, privateKey, ok, err := loadSignerFromEnv()
	if err != nil {
		return nil, err
	}
	if ok {
		opts.GoogleAccessID = accessID
		opts.PrivateKey = privateKey
	} else {
		email, signBytes, err := iamSigner(ctx)
		if err != nil {
			return nil, err
		}
		opts.GoogleAccessID = email
		opts.SignBytes = signBytes
	}

	signedURL, err := storage.SignedURL(s.bucket, objectKey, opts)
	if err != nil {
		return nil, err
	}

	return &SignedUpload{
		UploadURL: signedURL,
		Method:    opts.Method,
		Headers: map[string]string{
			"Content-Type": contentType,
		},
		ObjectKey: objectKey,
		ExpiresAt: opts.Expires,
	}, nil
}

// loadSignerFromEnv reads a base64-encoded service account key from
// GCS_SIGNER_KEY, if present.
func loadSignerFromEnv() (string, []byte, bool, error) {
	raw := strings.TrimSpace(os.Getenv("GCS_SIGNER_KEY"))
	if raw == "" {
		return "", nil, false, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		// Might already be plain JSON.
		decoded = []byte(raw)
	}

	var sa serviceAccountJSON
	if err := json.Unmarshal(decoded, &sa); err != nil {
		return "", nil, false, fmt.Errorf("parse GCS_SIGNER_KEY: %w", err)
	}
	if sa.ClientEmail == "" || sa.PrivateKey == "" {
		return "", nil, false, errors.New("GCS_SIGNER_KEY is missing client_email or private_key")
	}

	return sa.ClientEmail, []byte(sa.PrivateKey), true, nil
}

// iamSigner signs via the IAM credentials API when running with ambient
// workload identity instead of an exported key.
func iamSigner(ctx context.Context) (string, func([]byte) ([]byte, error), error) {
	creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return "", nil, err
	}

	email := strings.TrimSpace(os.Getenv("GCS_SIGNER_EMAIL"))
	if email == "" {
		return "", nil, errors.New("GCS_SIGNER_EMAIL is required when no signer key is configured")
	}

	svc, err := iamcredentials.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return "", nil, err
	}

	signBytes := func(b []byte) ([]byte, error) {
		resp, err := svc.Projects.ServiceAccounts.SignBlob(
			"projects/-/serviceAccounts/"+email,
			&iamcredentials.SignBlobRequest{
				Payload: base64.StdEncoding.EncodeToString(b),
			},
		).Context(ctx).Do()
		if err != nil {
			return nil, err
		}
		return base64.StdEncoding.DecodeString(resp.SignedBlob)
	}

	return email, signBytes, nil
}
