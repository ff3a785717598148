// Package repository resolves the remote artifact repository a maiar invocation works against.
package repository
