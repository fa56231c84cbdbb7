package minio

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/dockprep/internal/domain/structure"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/pkg/errors"
)

type fakeAPI struct {
	bucketExists bool
	madeBucket   string
	uploads      map[string]string // objectName -> filePath
	putErr       error
}

func (f *fakeAPI) BucketExists(context.Context, string) (bool, error) {
	return f.bucketExists, nil
}

func (f *fakeAPI) MakeBucket(_ context.Context, name string, _ minio.MakeBucketOptions) error {
	f.madeBucket = name
	return nil
}

func (f *fakeAPI) FPutObject(_ context.Context, _, objectName, filePath string, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	if f.uploads == nil {
		f.uploads = make(map[string]string)
	}
	f.uploads[objectName] = filePath
	info, err := os.Stat(filePath)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	return minio.UploadInfo{Size: info.Size()}, nil
}

func newTestStore(t *testing.T, api *fakeAPI) *ArtifactStore {
	t.Helper()
	store, err := NewArtifactStoreWithClient(context.Background(), api, "dockprep-artifacts", logging.NewNopLogger())
	require.NoError(t, err)
	return store
}

func writeArtifact(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("ATOM\nEND\n"), 0o644))
	return path
}

func TestNewArtifactStore_CreatesMissingBucket(t *testing.T) {
	api := &fakeAPI{bucketExists: false}
	newTestStore(t, api)
	assert.Equal(t, "dockprep-artifacts", api.madeBucket)
}

func TestNewArtifactStore_KeepsExistingBucket(t *testing.T) {
	api := &fakeAPI{bucketExists: true}
	newTestStore(t, api)
	assert.Empty(t, api.madeBucket)
}

func TestUploadArtifact(t *testing.T) {
	api := &fakeAPI{bucketExists: true}
	store := newTestStore(t, api)

	job := structure.NewPreparationJob(structure.MustParseID("6LU7"), 7.4)
	path := writeArtifact(t, t.TempDir(), "6LU7.pdbqt")

	object, err := store.UploadArtifact(context.Background(), job, path)
	require.NoError(t, err)
	assert.Equal(t, "6LU7/"+job.ID.String()+"/6LU7.pdbqt", object)
	assert.Equal(t, path, api.uploads[object])
}

func TestUploadArtifact_MissingFile(t *testing.T) {
	api := &fakeAPI{bucketExists: true}
	store := newTestStore(t, api)

	job := structure.NewPreparationJob(structure.MustParseID("6LU7"), 7.4)
	_, err := store.UploadArtifact(context.Background(), job, "/nope/6LU7.pdbqt")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodePrepInputNotFound))
	assert.Empty(t, api.uploads)
}

func TestUploadAll_SkipsMissingStages(t *testing.T) {
	api := &fakeAPI{bucketExists: true}
	store := newTestStore(t, api)
	dir := t.TempDir()

	job := structure.NewPreparationJob(structure.MustParseID("6LU7"), 7.4)
	job.RawPath = writeArtifact(t, dir, "6LU7.pdb")
	job.PQRPath = writeArtifact(t, dir, "6LU7.pqr")
	// PDBQTPath left empty: the conversion stage never ran.

	objects, err := store.UploadAll(context.Background(), job)
	require.NoError(t, err)
	assert.Len(t, objects, 2)
}

func TestUploadAll_StopsOnFailure(t *testing.T) {
	api := &fakeAPI{bucketExists: true, putErr: stderrors.New("connection reset")}
	store := newTestStore(t, api)

	job := structure.NewPreparationJob(structure.MustParseID("6LU7"), 7.4)
	job.RawPath = writeArtifact(t, t.TempDir(), "6LU7.pdb")

	_, err := store.UploadAll(context.Background(), job)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeExternalService))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "chemical/x-pdb", contentTypeFor("6LU7.pdbqt"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("notes.txt"))
}
