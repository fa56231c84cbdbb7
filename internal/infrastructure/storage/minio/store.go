// Package minio uploads preparation artifacts to S3-compatible object
// storage so they outlive the worker's local scratch space.
package minio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/dockprep/internal/config"
	"github.com/turtacn/dockprep/internal/domain/structure"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/pkg/errors"
)

// API is the subset of the minio client the store uses, extracted for
// test substitution.
type API interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// ArtifactStore uploads pipeline artifacts under a per-job prefix.
type ArtifactStore struct {
	client API
	bucket string
	logger logging.Logger
}

// NewArtifactStore connects to the configured MinIO endpoint and ensures
// the artifact bucket exists.
func NewArtifactStore(ctx context.Context, cfg config.MinIOConfig, logger logging.Logger) (*ArtifactStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeExternalService, "failed to create minio client")
	}
	return NewArtifactStoreWithClient(ctx, client, cfg.Bucket, logger)
}

// NewArtifactStoreWithClient wires an explicit client; used by tests.
func NewArtifactStoreWithClient(ctx context.Context, client API, bucket string, logger logging.Logger) (*ArtifactStore, error) {
	if logger == nil {
		logger = logging.Default()
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeExternalService, "failed to check artifact bucket")
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, errors.CodeExternalService, "failed to create artifact bucket")
		}
	}

	return &ArtifactStore{
		client: client,
		bucket: bucket,
		logger: logger.Named("storage.minio"),
	}, nil
}

// ObjectName returns the object key for an artifact of a job, e.g.
// "6LU7/<job-id>/6LU7.pdbqt".
func ObjectName(job *structure.PreparationJob, localPath string) string {
	return fmt.Sprintf("%s/%s/%s", job.PDBID, job.ID, filepath.Base(localPath))
}

// UploadArtifact uploads one local artifact file and returns its object
// key. The local file must exist.
func (s *ArtifactStore) UploadArtifact(ctx context.Context, job *structure.PreparationJob, localPath string) (string, error) {
	if _, err := os.Stat(localPath); err != nil {
		return "", errors.Newf(errors.CodePrepInputNotFound,
			"artifact file not found: %s", localPath)
	}

	objectName := ObjectName(job, localPath)
	info, err := s.client.FPutObject(ctx, s.bucket, objectName, localPath,
		minio.PutObjectOptions{ContentType: contentTypeFor(localPath)})
	if err != nil {
		return "", errors.Wrap(err, errors.CodeExternalService,
			fmt.Sprintf("failed to upload artifact %s", objectName))
	}

	s.logger.Info("uploaded artifact",
		logging.String("object", objectName),
		logging.Int64("bytes", info.Size))
	return objectName, nil
}

// UploadAll uploads every artifact path the job has recorded so far,
// returning the object keys. Missing stages are skipped.
func (s *ArtifactStore) UploadAll(ctx context.Context, job *structure.PreparationJob) ([]string, error) {
	var objects []string
	for _, path := range []string{job.RawPath, job.PQRPath, job.PDBQTPath} {
		if path == "" {
			continue
		}
		object, err := s.UploadArtifact(ctx, job, path)
		if err != nil {
			return objects, err
		}
		objects = append(objects, object)
	}
	return objects, nil
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdb", ".pqr", ".pdbqt":
		return "chemical/x-pdb"
	default:
		return "application/octet-stream"
	}
}
