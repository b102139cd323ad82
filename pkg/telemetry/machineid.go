package telemetry

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// FallbackID is used when the machine ID is unavailable.
const FallbackID = "ledlink"

// MachineID retrieves an app specific ID identifying the machine.
func MachineID() string {
	id, err := machineid.ProtectedID(FallbackID)
	if err != nil {
		glog.Warningf("machine ID unavailable: %v", err)
		return FallbackID
	}
	return id
}
