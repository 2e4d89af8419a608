// Package cfg implements functionality to configure an app.
//
// The configuration objects defined here need only be implemented once,
// but can be applied to multiple types.
//
// In order to add support for a new type, the configuration
// need only implement an ApplyX method.
package cfg

import (
	"time"

	"github.com/s887432/udp-filetransfer/internal"
	"github.com/s887432/udp-filetransfer/internal/app/apps"
)

// PortCfg is configuration for the server port.
type PortCfg struct {
	port uint16
}

// NewPortCfg creates a new PortCfg from the given config.
func NewPortCfg(port uint16) *PortCfg {
	return &PortCfg{
		port: port,
	}
}

// PortFromEnv creates a new PortCfg from the current environment.
func PortFromEnv() *PortCfg {
	return &PortCfg{
		port: uint16(internal.Port),
	}
}

// ApplyClientApp applies the PortCfg to a ClientApp.
func (cfg PortCfg) ApplyClientApp(app *apps.ClientApp) error {
	app.Port = cfg.port
	return nil
}

// ApplyServerApp applies the PortCfg to a ServerApp.
func (cfg PortCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.Port = cfg.port
	return nil
}

// TransportCfg is configuration for the UDP socket and segment link.
type TransportCfg struct {
	timeout     time.Duration
	maxDatagram int
	tos         int
}

// NewTransportCfg creates a new TransportCfg from the given config.
func NewTransportCfg(timeout time.Duration, maxDatagram, tos int) *TransportCfg {
	return &TransportCfg{
		timeout:     timeout,
		maxDatagram: maxDatagram,
		tos:         tos,
	}
}

// TransportFromEnv creates a new TransportCfg from the current environment.
func TransportFromEnv() *TransportCfg {
	return NewTransportCfg(
		time.Duration(internal.TimeoutMS)*time.Millisecond,
		internal.MaxDatagram,
		internal.TOS,
	)
}

// ApplyClientApp applies the TransportCfg to a ClientApp.
func (cfg TransportCfg) ApplyClientApp(app *apps.ClientApp) error {
	app.Timeout = cfg.timeout
	app.MaxDatagram = cfg.maxDatagram
	app.TOS = cfg.tos
	return nil
}

// ApplyServerApp applies the TransportCfg to a ServerApp.
func (cfg TransportCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.Timeout = cfg.timeout
	app.MaxDatagram = cfg.maxDatagram
	app.TOS = cfg.tos
	return nil
}

// TargetCfg names the server and what to send it.
type TargetCfg struct {
	serverIP   string
	sectionKiB int
	listPath   string
}

// NewTargetCfg creates a new TargetCfg.
func NewTargetCfg(serverIP string, sectionKiB int, listPath string) *TargetCfg {
	return &TargetCfg{
		serverIP:   serverIP,
		sectionKiB: sectionKiB,
		listPath:   listPath,
	}
}

// ApplyClientApp applies the TargetCfg to a ClientApp.
func (cfg TargetCfg) ApplyClientApp(app *apps.ClientApp) error {
	app.ServerIP = cfg.serverIP
	app.SectionKiB = cfg.sectionKiB
	app.ListPath = cfg.listPath
	return nil
}

// StorageCfg configures where a server keeps received files and session records.
type StorageCfg struct {
	outputDir   string
	maxFileSize int32
	redisAddr   string
}

// NewStorageCfg creates a new StorageCfg.
func NewStorageCfg(outputDir string, maxFileSize int32, redisAddr string) *StorageCfg {
	return &StorageCfg{
		outputDir:   outputDir,
		maxFileSize: maxFileSize,
		redisAddr:   redisAddr,
	}
}

// StorageFromEnv creates a new StorageCfg from the current environment.
func StorageFromEnv() *StorageCfg {
	return NewStorageCfg(internal.OutputDir, int32(internal.MaxFileSize), internal.RedisAddr)
}

// ApplyServerApp applies the StorageCfg to a ServerApp.
func (cfg StorageCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.OutputDir = cfg.outputDir
	app.MaxFileSize = cfg.maxFileSize
	app.RedisAddr = cfg.redisAddr
	return nil
}
