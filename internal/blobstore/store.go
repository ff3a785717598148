package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/spf13/afero"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/maiarpkg/maiar/internal/repository"
	"github.com/maiarpkg/maiar/internal/transfer"
)

const (
	clientCreationErrorTemplateConstant = "unable to create storage client: %w"
	listObjectsErrorTemplateConstant    = "unable to list objects under %q: %w"
	openObjectErrorTemplateConstant     = "unable to open object %q: %w"
	createFileErrorTemplateConstant     = "unable to create %s: %w"
	openFileErrorTemplateConstant       = "unable to open %s: %w"
	copyObjectErrorTemplateConstant     = "unable to copy object %q: %w"
	finalizeObjectErrorTemplateConstant = "unable to finalize object %q: %w"
	localDirectoryPermissionsConstant   = 0o755
)

// Store resolves object paths inside one bucket.
type Store interface {
	Handle(objectPath string) transfer.BlobHandle
	List(executionContext context.Context, prefix string) ([]string, error)
	Close() error
}

// StoreFactory opens a Store for a repository location.
type StoreFactory interface {
	Open(executionContext context.Context, location repository.Location) (Store, error)
}

// GCSStoreFactory opens Google Cloud Storage backed stores.
type GCSStoreFactory struct {
	CredentialsFile string
	FileSystem      afero.Fs
}

// Open creates a storage client for the location's bucket.
func (factory GCSStoreFactory) Open(executionContext context.Context, location repository.Location) (Store, error) {
	var clientOptions []option.ClientOption
	if len(factory.CredentialsFile) > 0 {
		clientOptions = append(clientOptions, option.WithCredentialsFile(factory.CredentialsFile))
	}

	client, clientError := storage.NewClient(executionContext, clientOptions...)
	if clientError != nil {
		return nil, fmt.Errorf(clientCreationErrorTemplateConstant, clientError)
	}

	fileSystem := factory.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	return &GCSStore{client: client, bucket: client.Bucket(location.String()), fileSystem: fileSystem}, nil
}

// GCSStore is a Store backed by one Google Cloud Storage bucket.
type GCSStore struct {
	client     *storage.Client
	bucket     *storage.BucketHandle
	fileSystem afero.Fs
}

// Handle returns a transfer handle for objectPath.
func (store *GCSStore) Handle(objectPath string) transfer.BlobHandle {
	return &gcsObjectHandle{objectPath: objectPath, object: store.bucket.Object(objectPath), fileSystem: store.fileSystem}
}

// List returns the names of every object under prefix.
func (store *GCSStore) List(executionContext context.Context, prefix string) ([]string, error) {
	objectIterator := store.bucket.Objects(executionContext, &storage.Query{Prefix: prefix})

	var objectNames []string
	for {
		objectAttributes, iterationError := objectIterator.Next()
		if errors.Is(iterationError, iterator.Done) {
			return objectNames, nil
		}
		if iterationError != nil {
			return nil, fmt.Errorf(listObjectsErrorTemplateConstant, prefix, iterationError)
		}
		objectNames = append(objectNames, objectAttributes.Name)
	}
}

// Close releases the storage client.
func (store *GCSStore) Close() error {
	return store.client.Close()
}

type gcsObjectHandle struct {
	objectPath string
	object     *storage.ObjectHandle
	fileSystem afero.Fs
}

func (handle *gcsObjectHandle) DownloadToFile(executionContext context.Context, localPath string) error {
	objectReader, readerError := handle.object.NewReader(executionContext)
	if readerError != nil {
		return fmt.Errorf(openObjectErrorTemplateConstant, handle.objectPath, readerError)
	}
	defer objectReader.Close()

	return writeLocalFile(handle.fileSystem, localPath, objectReader, handle.objectPath)
}

func (handle *gcsObjectHandle) UploadFromFile(executionContext context.Context, localPath string) error {
	return uploadLocalFile(executionContext, handle.fileSystem, localPath, handle.objectPath, func(writerContext context.Context) io.WriteCloser {
		return handle.object.NewWriter(writerContext)
	})
}

// uploadLocalFile streams localPath into the writer returned by newWriter. A failed copy cancels
// the writer context so the partial object is discarded instead of committed by Close.
func uploadLocalFile(executionContext context.Context, fileSystem afero.Fs, localPath string, objectPath string, newWriter func(context.Context) io.WriteCloser) error {
	localFile, openError := fileSystem.Open(localPath)
	if openError != nil {
		return fmt.Errorf(openFileErrorTemplateConstant, localPath, openError)
	}
	defer localFile.Close()

	writerContext, cancelWriter := context.WithCancel(executionContext)
	defer cancelWriter()

	objectWriter := newWriter(writerContext)
	if _, copyError := io.Copy(objectWriter, localFile); copyError != nil {
		cancelWriter()
		objectWriter.Close()
		return fmt.Errorf(copyObjectErrorTemplateConstant, objectPath, copyError)
	}
	if closeError := objectWriter.Close(); closeError != nil {
		return fmt.Errorf(finalizeObjectErrorTemplateConstant, objectPath, closeError)
	}
	return nil
}

// writeLocalFile streams source into localPath, creating parent directories. A partial
// file is removed when the copy fails.
func writeLocalFile(fileSystem afero.Fs, localPath string, source io.Reader, objectPath string) error {
	if directoryError := fileSystem.MkdirAll(filepath.Dir(localPath), localDirectoryPermissionsConstant); directoryError != nil {
		return fmt.Errorf(createFileErrorTemplateConstant, localPath, directoryError)
	}

	localFile, createError := fileSystem.Create(localPath)
	if createError != nil {
		return fmt.Errorf(createFileErrorTemplateConstant, localPath, createError)
	}

	if _, copyError := io.Copy(localFile, source); copyError != nil {
		localFile.Close()
		fileSystem.Remove(localPath)
		return fmt.Errorf(copyObjectErrorTemplateConstant, objectPath, copyError)
	}
	if closeError := localFile.Close(); closeError != nil {
		fileSystem.Remove(localPath)
		return fmt.Errorf(createFileErrorTemplateConstant, localPath, closeError)
	}
	return nil
}
