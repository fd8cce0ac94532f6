// Package device plays and records audio through PortAudio.
//
// Initialize must be called before any other function and paired with
// Terminate.
package device

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/gordonklaus/portaudio"
)

// DefaultDeviceID selects the system default input or output device.
const DefaultDeviceID = -1

// Device describes one PortAudio device.
type Device struct {
	ID                int
	Name              string
	HostAPI           string
	MaxInputChannels  int
	MaxOutputChannels int
	DefaultSampleRate float64
}

// Kind returns "Input", "Output" or "Input/Output".
func (d Device) Kind() string {
	switch {
	case d.MaxInputChannels > 0 && d.MaxOutputChannels > 0:
		return "Input/Output"
	case d.MaxInputChannels > 0:
		return "Input"
	case d.MaxOutputChannels > 0:
		return "Output"
	default:
		return "Unknown"
	}
}

// Initialize sets up the PortAudio subsystem.
func Initialize() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return nil
}

// Terminate shuts down the PortAudio subsystem.
func Terminate() error {
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("failed to terminate PortAudio: %w", err)
	}
	return nil
}

// paDevices is swapped out in tests.
var paDevices = portaudio.Devices

// Devices returns all devices known to PortAudio, indexed by ID.
func Devices() ([]Device, error) {
	infos, err := paDevices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	devices := make([]Device, len(infos))
	for i, info := range infos {
		devices[i] = Device{
			ID:                i,
			Name:              info.Name,
			MaxInputChannels:  info.MaxInputChannels,
			MaxOutputChannels: info.MaxOutputChannels,
			DefaultSampleRate: info.DefaultSampleRate,
		}
		if info.HostApi != nil {
			devices[i].HostAPI = info.HostApi.Name
		}
	}
	return devices, nil
}

// ListDevices writes a human-readable device table to w.
func ListDevices(w io.Writer) error {
	devices, err := Devices()
	if err != nil {
		return err
	}
	return writeDeviceList(w, devices)
}

// writeDeviceList renders through a renderer bound to w, so styling is
// dropped when w is not a terminal.
func writeDeviceList(w io.Writer, devices []Device) error {
	r := lipgloss.NewRenderer(w)
	titleStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("#25A065"))
	nameStyle := r.NewStyle().Bold(true)

	if _, err := fmt.Fprintf(w, "%s\n\n", titleStyle.Render("Available Audio Devices")); err != nil {
		return err
	}
	if len(devices) == 0 {
		_, err := fmt.Fprintln(w, "(none)")
		return err
	}
	for _, d := range devices {
		header := nameStyle.Render(fmt.Sprintf("[%d] %s (%s)", d.ID, d.Name, d.Kind()))
		_, err := fmt.Fprintf(w, "%s\n    Host API: %s\n    Input channels: %d, Output channels: %d\n    Default sample rate: %.0f Hz\n\n",
			header, d.HostAPI, d.MaxInputChannels, d.MaxOutputChannels, d.DefaultSampleRate)
		if err != nil {
			return err
		}
	}
	return nil
}

// InputDevice returns the device with the given ID, or the default input
// device for DefaultDeviceID.
func InputDevice(id int) (*portaudio.DeviceInfo, error) {
	if id == DefaultDeviceID {
		dev, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("no default input device: %w", err)
		}
		return dev, nil
	}
	dev, err := deviceByID(id)
	if err != nil {
		return nil, err
	}
	if dev.MaxInputChannels < 1 {
		return nil, fmt.Errorf("device %d (%s) has no input channels", id, dev.Name)
	}
	return dev, nil
}

// OutputDevice returns the device with the given ID, or the default output
// device for DefaultDeviceID.
func OutputDevice(id int) (*portaudio.DeviceInfo, error) {
	if id == DefaultDeviceID {
		dev, err := portaudio.DefaultOutputDevice()
		if err != nil {
			return nil, fmt.Errorf("no default output device: %w", err)
		}
		return dev, nil
	}
	dev, err := deviceByID(id)
	if err != nil {
		return nil, err
	}
	if dev.MaxOutputChannels < 1 {
		return nil, fmt.Errorf("device %d (%s) has no output channels", id, dev.Name)
	}
	return dev, nil
}

func deviceByID(id int) (*portaudio.DeviceInfo, error) {
	infos, err := paDevices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	if id < 0 || id >= len(infos) {
		return nil, fmt.Errorf("invalid device ID: %d", id)
	}
	return infos[id], nil
}
