package ale

import "github.com/pkg/errors"

// Driver opens a ROM file and returns a Simulator bound to it. The
// emulator itself — ROM loading, frame rendering, legal action
// discovery — is an external collaborator this package never
// implements; it only defines the Simulator contract the decision
// engine needs. A concrete backend registers itself with RegisterDriver,
// the same way database/sql drivers register themselves for side
// effects on import.
type Driver func(romPath string) (Simulator, error)

var drivers = map[string]Driver{}

// RegisterDriver makes a Driver available under name for OpenROM to find.
// Typically called from a backend package's init().
func RegisterDriver(name string, d Driver) {
	drivers[name] = d
}

// OpenROM constructs a Simulator for romPath using the driver registered
// under driverName.
func OpenROM(driverName, romPath string) (Simulator, error) {
	d, ok := drivers[driverName]
	if !ok {
		return nil, errors.Errorf("ale: no driver registered with name %q (forgot to import a backend package?)", driverName)
	}
	return d(romPath)
}
