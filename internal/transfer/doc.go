// Package transfer retries single-file uploads and downloads against a remote blob store
// with a bounded linear backoff.
package transfer
