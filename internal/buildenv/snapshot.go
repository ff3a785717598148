package buildenv

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/maiarpkg/maiar/internal/fingerprint"
)

const (
	snapshotHashErrorTemplateConstant = "unable to hash build environment: %w"
	osVersionSkippedMessageConstant   = "Linux distribution unavailable; continuing without it"
	snapshotCapturedMessageConstant   = "Captured build environment"
	logFieldHashConstant              = "hash"
)

// SnapshotOptions selects which environments a snapshot captures.
type SnapshotOptions struct {
	SkipSystem bool
	SkipPython bool
}

// Snapshot describes a host build environment together with its fingerprint.
type Snapshot struct {
	OSVersion string      `json:"os_version" yaml:"os_version"`
	System    Environment `json:"system,omitempty" yaml:"system,omitempty"`
	Python    Environment `json:"python,omitempty" yaml:"python,omitempty"`
	Hash      string      `json:"hash" yaml:"hash"`
}

type snapshotFingerprint struct {
	OSVersion string      `json:"os_version"`
	System    Environment `json:"system"`
	Python    Environment `json:"python"`
}

// Snapshot captures the selected environments. A missing Linux distribution is logged and
// left empty; package listing failures are returned.
func (service *Service) Snapshot(executionContext context.Context, options SnapshotOptions) (Snapshot, error) {
	var snapshot Snapshot

	osVersion, osVersionError := service.LinuxOSVersion(executionContext)
	switch {
	case osVersionError == nil:
		snapshot.OSVersion = osVersion
	case errors.Is(osVersionError, ErrOSVersionUnavailable):
		service.logger.Warn(osVersionSkippedMessageConstant, zap.Error(osVersionError))
	default:
		return Snapshot{}, osVersionError
	}

	if !options.SkipSystem {
		systemEnvironment, systemError := service.SystemEnvironment(executionContext)
		if systemError != nil {
			return Snapshot{}, systemError
		}
		snapshot.System = systemEnvironment
	}

	if !options.SkipPython {
		pythonEnvironment, pythonError := service.PythonEnvironment(executionContext)
		if pythonError != nil {
			return Snapshot{}, pythonError
		}
		snapshot.Python = pythonEnvironment
	}

	snapshotHash, hashError := fingerprint.SHA1HashFromData(snapshotFingerprint{
		OSVersion: snapshot.OSVersion,
		System:    snapshot.System,
		Python:    snapshot.Python,
	})
	if hashError != nil {
		return Snapshot{}, fmt.Errorf(snapshotHashErrorTemplateConstant, hashError)
	}
	snapshot.Hash = snapshotHash

	service.logger.Info(snapshotCapturedMessageConstant,
		zap.String(logFieldHashConstant, snapshotHash),
		zap.Int(logFieldPackageCountConstant, len(snapshot.System)+len(snapshot.Python)),
	)
	return snapshot, nil
}
