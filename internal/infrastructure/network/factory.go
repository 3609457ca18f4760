package network

import (
	"ifupdown-agent/internal/domain/errors"
	"ifupdown-agent/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// NetworkManagerFactory is a factory that creates appropriate network managers based on OS
type NetworkManagerFactory struct {
	osDetector      interfaces.OSDetector
	commandExecutor interfaces.CommandExecutor
	fileSystem      interfaces.FileSystem
	backupService   interfaces.BackupService
	logger          *logrus.Logger
	interfacesPath  string
	reloadEnabled   bool
}

// NewNetworkManagerFactory creates a new NetworkManagerFactory
func NewNetworkManagerFactory(
	osDetector interfaces.OSDetector,
	executor interfaces.CommandExecutor,
	fs interfaces.FileSystem,
	backup interfaces.BackupService,
	logger *logrus.Logger,
	interfacesPath string,
	reloadEnabled bool,
) *NetworkManagerFactory {
	return &NetworkManagerFactory{
		osDetector:      osDetector,
		commandExecutor: executor,
		fileSystem:      fs,
		backupService:   backup,
		logger:          logger,
		interfacesPath:  interfacesPath,
		reloadEnabled:   reloadEnabled,
	}
}

// CreateNetworkConfigurer creates appropriate NetworkConfigurer based on OS
func (f *NetworkManagerFactory) CreateNetworkConfigurer() (interfaces.NetworkConfigurer, error) {
	osType, err := f.osDetector.DetectOS()
	if err != nil {
		return nil, errors.NewSystemError("failed to detect OS", err)
	}

	f.logger.WithField("os_type", osType).Debug("OS type detected")

	switch osType {
	case interfaces.OSTypeDebian, interfaces.OSTypeUbuntu:
		// Both use the classic /etc/network/interfaces file
		return NewIfupdownAdapter(
			f.commandExecutor,
			f.fileSystem,
			f.backupService,
			f.logger,
			f.interfacesPath,
			f.reloadEnabled,
		), nil

	case interfaces.OSTypeRHEL:
		// RHEL family manages interfaces through NetworkManager,
		// not through an ifupdown interfaces file.
		return nil, errors.NewSystemError("RHEL family is not supported by the ifupdown agent", nil)

	default:
		return nil, errors.NewSystemError("unsupported OS type", nil)
	}
}

// CreateNetworkRollbacker creates appropriate NetworkRollbacker based on OS
func (f *NetworkManagerFactory) CreateNetworkRollbacker() (interfaces.NetworkRollbacker, error) {
	// Return same instance as NetworkConfigurer (same implementation implements both interfaces)
	configurer, err := f.CreateNetworkConfigurer()
	if err != nil {
		return nil, err
	}

	// Convert to NetworkRollbacker through type assertion
	if rollbacker, ok := configurer.(interfaces.NetworkRollbacker); ok {
		return rollbacker, nil
	}

	return nil, errors.NewSystemError("network manager does not support rollback functionality", nil)
}
