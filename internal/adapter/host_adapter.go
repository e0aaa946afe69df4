package adapter

import (
	"context"
	"errors"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
)

// ErrNoProcessor is returned when the host reports no CPU model.
var ErrNoProcessor = errors.New("no processor information")

// HostAdapter provides operating system facts for the report's platform section.
type HostAdapter interface {
	System(ctx context.Context) (string, error)
	Release(ctx context.Context) (string, error)
	Version(ctx context.Context) (string, error)
	Machine(ctx context.Context) (string, error)
	Processor(ctx context.Context) (string, error)
	Hostname(ctx context.Context) (string, error)
}

// LocalHostAdapter reads host facts through gopsutil.
type LocalHostAdapter struct {
	hostInfo func(ctx context.Context) (*host.InfoStat, error)
	cpuInfo  func(ctx context.Context) ([]cpu.InfoStat, error)
}

// NewLocalHostAdapter constructs a LocalHostAdapter.
func NewLocalHostAdapter() *LocalHostAdapter {
	return &LocalHostAdapter{
		hostInfo: host.InfoWithContext,
		cpuInfo:  cpu.InfoWithContext,
	}
}

var systemNames = map[string]string{
	"linux":   "Linux",
	"darwin":  "Darwin",
	"windows": "Windows",
	"freebsd": "FreeBSD",
	"openbsd": "OpenBSD",
	"netbsd":  "NetBSD",
	"solaris": "SunOS",
}

// System returns the operating system name, e.g. "Linux".
func (a *LocalHostAdapter) System(ctx context.Context) (string, error) {
	info, err := a.hostInfo(ctx)
	if err != nil {
		return "", err
	}

	if name, ok := systemNames[info.OS]; ok {
		return name, nil
	}

	if info.OS == "" {
		return "", nil
	}

	return strings.ToUpper(info.OS[:1]) + info.OS[1:], nil
}

// Release returns the kernel release.
func (a *LocalHostAdapter) Release(ctx context.Context) (string, error) {
	info, err := a.hostInfo(ctx)
	if err != nil {
		return "", err
	}

	return info.KernelVersion, nil
}

// Version returns the platform version.
func (a *LocalHostAdapter) Version(ctx context.Context) (string, error) {
	info, err := a.hostInfo(ctx)
	if err != nil {
		return "", err
	}

	return info.PlatformVersion, nil
}

// Machine returns the machine type, e.g. "x86_64".
func (a *LocalHostAdapter) Machine(ctx context.Context) (string, error) {
	info, err := a.hostInfo(ctx)
	if err != nil {
		return "", err
	}

	return info.KernelArch, nil
}

// Processor returns the model name of the first CPU.
func (a *LocalHostAdapter) Processor(ctx context.Context) (string, error) {
	cpus, err := a.cpuInfo(ctx)
	if err != nil {
		return "", err
	}

	if len(cpus) == 0 {
		return "", ErrNoProcessor
	}

	return cpus[0].ModelName, nil
}

// Hostname returns the host name as reported by the kernel.
func (a *LocalHostAdapter) Hostname(ctx context.Context) (string, error) {
	info, err := a.hostInfo(ctx)
	if err != nil {
		return "", err
	}

	return info.Hostname, nil
}
