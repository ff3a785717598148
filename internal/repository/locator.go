package repository

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/maiarpkg/maiar/internal/console"
)

const (
	// MarkerFileName is the file consulted when no repository is given explicitly.
	MarkerFileName = "repository.maiar"
	// StorageScheme is the only supported repository scheme.
	StorageScheme = "gs://"

	markerFileMissingMessageConstant = "No repository.maiar file found, either write the repository as the only " +
		"element in that file, or provide the repository with --repository on the command line"
	markerFileInvalidMessageConstant = "No valid repository found in repository.maiar, " +
		"please write the repository as the only element in the file, " +
		"or provide the repository with --repository on the command line"
	unsupportedSchemeMessageConstant = "Repository must be a google cloud storage bucket"
	emptyBucketMessageConstant       = "Repository must name a google cloud storage bucket"
	bucketPathSeparatorConstant      = "/"
)

var (
	// ErrMarkerFileMissing indicates no explicit repository and no marker file.
	ErrMarkerFileMissing = console.NewFatalError(markerFileMissingMessageConstant)
	// ErrMarkerFileInvalid indicates the marker file is empty or lacks the gs:// scheme.
	ErrMarkerFileInvalid = console.NewFatalError(markerFileInvalidMessageConstant)
	// ErrUnsupportedScheme indicates an explicit repository outside Google Cloud Storage.
	ErrUnsupportedScheme = console.NewFatalError(unsupportedSchemeMessageConstant)
	// ErrEmptyBucket indicates the repository reduced to an empty bucket name.
	ErrEmptyBucket = console.NewFatalError(emptyBucketMessageConstant)
)

// Location is a bare bucket identifier without scheme or surrounding slashes.
type Location string

// String returns the bucket identifier.
func (location Location) String() string {
	return string(location)
}

// URL returns the location with its scheme restored.
func (location Location) URL() string {
	return StorageScheme + string(location)
}

// WorkingDirectoryProvider reports the directory searched for the marker file.
type WorkingDirectoryProvider func() (string, error)

// Locator resolves repository locations from arguments or the marker file.
type Locator struct {
	fileSystem               afero.Fs
	workingDirectoryProvider WorkingDirectoryProvider
}

// NewLocatorWithFileSystem constructs a Locator over the supplied filesystem and directory provider.
func NewLocatorWithFileSystem(fileSystem afero.Fs, workingDirectoryProvider WorkingDirectoryProvider) *Locator {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	if workingDirectoryProvider == nil {
		workingDirectoryProvider = os.Getwd
	}
	return &Locator{fileSystem: fileSystem, workingDirectoryProvider: workingDirectoryProvider}
}

// Detect returns the bucket named by explicit, or by the marker file when explicit is empty.
// Every failure is a console.FatalError.
func (locator *Locator) Detect(explicit string) (Location, error) {
	candidate := explicit
	if len(candidate) == 0 {
		markerContents, markerError := locator.readMarkerFile()
		if markerError != nil {
			return "", markerError
		}
		candidate = markerContents
	}

	if !strings.HasPrefix(candidate, StorageScheme) {
		return "", ErrUnsupportedScheme
	}

	bucket := strings.Trim(strings.TrimSpace(candidate[len(StorageScheme):]), bucketPathSeparatorConstant)
	if len(bucket) == 0 {
		return "", ErrEmptyBucket
	}
	return Location(bucket), nil
}

func (locator *Locator) readMarkerFile() (string, error) {
	workingDirectory, workingDirectoryError := locator.workingDirectoryProvider()
	if workingDirectoryError != nil {
		return "", console.WrapFatalError(markerFileMissingMessageConstant, workingDirectoryError)
	}

	markerContents, readError := afero.ReadFile(locator.fileSystem, filepath.Join(workingDirectory, MarkerFileName))
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return "", ErrMarkerFileMissing
		}
		return "", console.WrapFatalError(markerFileMissingMessageConstant, readError)
	}

	trimmedContents := strings.TrimSpace(string(markerContents))
	if len(trimmedContents) == 0 || !strings.HasPrefix(trimmedContents, StorageScheme) {
		return "", ErrMarkerFileInvalid
	}
	return trimmedContents, nil
}
