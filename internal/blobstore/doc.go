// Package blobstore connects repository locations to Google Cloud Storage and synchronizes
// local artifacts with them through the retrying transfer layer.
package blobstore
