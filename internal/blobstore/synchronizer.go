package blobstore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/maiarpkg/maiar/internal/console"
	"github.com/maiarpkg/maiar/internal/repository"
	"github.com/maiarpkg/maiar/internal/transfer"
	pathutils "github.com/maiarpkg/maiar/internal/utils/path"
)

const (
	storeNotConfiguredMessageConstant     = "blob store not configured"
	retrierNotConfiguredMessageConstant   = "transfer retrier not configured"
	uploadFailedErrorTemplateConstant     = "unable to upload %s to %s: %w"
	downloadFailedErrorTemplateConstant   = "unable to download %s to %s: %w"
	listFailedErrorTemplateConstant       = "unable to list %s: %w"
	unsafeObjectPathErrorTemplateConstant = "object %s resolves outside %s"
	uploadedMessageTemplateConstant       = "Uploaded %s"
	downloadedMessageTemplateConstant     = "Downloaded %s"
	objectURLTemplateConstant             = "%s/%s"
	objectPathSeparatorConstant           = "/"
	logFieldObjectConstant                = "object"
	logFieldLocalPathConstant             = "local_path"
	transferStartedMessageConstant        = "Transferring object"
)

var (
	// ErrStoreNotConfigured indicates the synchronizer was constructed without a store.
	ErrStoreNotConfigured = errors.New(storeNotConfiguredMessageConstant)
	// ErrRetrierNotConfigured indicates the synchronizer was constructed without a retrier.
	ErrRetrierNotConfigured = errors.New(retrierNotConfiguredMessageConstant)
)

// Synchronizer copies artifacts between local paths and a repository bucket.
type Synchronizer struct {
	location     repository.Location
	store        Store
	retrier      *transfer.Retrier
	logger       *zap.Logger
	printer      *console.Printer
	homeExpander *pathutils.HomeExpander
}

// NewSynchronizer validates dependencies and constructs a Synchronizer.
func NewSynchronizer(location repository.Location, store Store, retrier *transfer.Retrier, logger *zap.Logger, printer *console.Printer) (*Synchronizer, error) {
	if store == nil {
		return nil, ErrStoreNotConfigured
	}
	if retrier == nil {
		return nil, ErrRetrierNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if printer == nil {
		printer = console.NewPrinter(nil)
	}
	return &Synchronizer{
		location:     location,
		store:        store,
		retrier:      retrier,
		logger:       logger,
		printer:      printer,
		homeExpander: pathutils.NewHomeExpander(),
	}, nil
}

// Push uploads every local path to <prefix>/<base name> and returns the object names in order.
// The first upload that exhausts its retries aborts the push.
func (synchronizer *Synchronizer) Push(executionContext context.Context, prefix string, localPaths []string) ([]string, error) {
	objectNames := make([]string, 0, len(localPaths))
	for _, localPath := range localPaths {
		expandedPath := synchronizer.homeExpander.Expand(localPath)
		objectName := ObjectName(prefix, filepath.Base(expandedPath))

		synchronizer.logger.Debug(transferStartedMessageConstant, zap.String(logFieldObjectConstant, objectName), zap.String(logFieldLocalPathConstant, expandedPath))
		if uploadError := synchronizer.retrier.Upload(executionContext, synchronizer.store.Handle(objectName), expandedPath); uploadError != nil {
			return objectNames, fmt.Errorf(uploadFailedErrorTemplateConstant, expandedPath, synchronizer.objectURL(objectName), uploadError)
		}

		synchronizer.printer.Ok(fmt.Sprintf(uploadedMessageTemplateConstant, synchronizer.objectURL(objectName)))
		objectNames = append(objectNames, objectName)
	}
	return objectNames, nil
}

// Pull downloads objects under prefix into destinationDirectory and returns the local paths in
// order. Local paths keep the object path relative to prefix. When objectNames is empty every
// object under prefix is downloaded and folder placeholders are skipped. The first download that
// exhausts its retries aborts the pull.
func (synchronizer *Synchronizer) Pull(executionContext context.Context, prefix string, objectNames []string, destinationDirectory string) ([]string, error) {
	resolvedObjectNames := make([]string, 0, len(objectNames))
	for _, objectName := range objectNames {
		resolvedObjectNames = append(resolvedObjectNames, ObjectName(prefix, objectName))
	}

	if len(resolvedObjectNames) == 0 {
		listedObjectNames, listError := transfer.Execute(executionContext, synchronizer.retrier, func(attemptContext context.Context) ([]string, error) {
			return synchronizer.store.List(attemptContext, listingPrefix(prefix))
		})
		if listError != nil {
			return nil, fmt.Errorf(listFailedErrorTemplateConstant, synchronizer.objectURL(prefix), listError)
		}
		for _, listedObjectName := range listedObjectNames {
			if strings.HasSuffix(listedObjectName, objectPathSeparatorConstant) {
				continue
			}
			resolvedObjectNames = append(resolvedObjectNames, listedObjectName)
		}
	}

	expandedDirectory := synchronizer.homeExpander.Expand(destinationDirectory)
	localPaths := make([]string, 0, len(resolvedObjectNames))
	for _, objectName := range resolvedObjectNames {
		relativePath := filepath.FromSlash(strings.TrimPrefix(objectName, listingPrefix(prefix)))
		if !filepath.IsLocal(relativePath) {
			return localPaths, fmt.Errorf(unsafeObjectPathErrorTemplateConstant, synchronizer.objectURL(objectName), expandedDirectory)
		}
		localPath := filepath.Join(expandedDirectory, relativePath)

		synchronizer.logger.Debug(transferStartedMessageConstant, zap.String(logFieldObjectConstant, objectName), zap.String(logFieldLocalPathConstant, localPath))
		if downloadError := synchronizer.retrier.Download(executionContext, synchronizer.store.Handle(objectName), localPath); downloadError != nil {
			return localPaths, fmt.Errorf(downloadFailedErrorTemplateConstant, synchronizer.objectURL(objectName), localPath, downloadError)
		}

		synchronizer.printer.Ok(fmt.Sprintf(downloadedMessageTemplateConstant, localPath))
		localPaths = append(localPaths, localPath)
	}
	return localPaths, nil
}

func (synchronizer *Synchronizer) objectURL(objectName string) string {
	return fmt.Sprintf(objectURLTemplateConstant, synchronizer.location.URL(), objectName)
}

// ObjectName joins prefix and name into an object path without leading or doubled slashes.
func ObjectName(prefix string, name string) string {
	trimmedPrefix := strings.Trim(prefix, objectPathSeparatorConstant)
	trimmedName := strings.TrimLeft(name, objectPathSeparatorConstant)
	if len(trimmedPrefix) == 0 {
		return trimmedName
	}
	return path.Join(trimmedPrefix, trimmedName)
}

func listingPrefix(prefix string) string {
	trimmedPrefix := strings.Trim(prefix, objectPathSeparatorConstant)
	if len(trimmedPrefix) == 0 {
		return trimmedPrefix
	}
	return trimmedPrefix + objectPathSeparatorConstant
}
