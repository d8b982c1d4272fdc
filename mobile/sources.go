package mobile

import "github.com/ScoopDroid/signalbar/flow"

// Identity names one tracked subscription. Facades for different
// identities never share signal instances or cached values.
type Identity int

// Activity is the data-activity fact. The zero value is the valid
// "no activity known" state, not an error.
type Activity struct {
	Known bool
	In    bool
	Out   bool
}

// Sources is the full set of upstream facts one facade reads. Each
// field is owned and written by its external provider; the engine only
// ever reads them. All sources for one identity live on one System.
type Sources struct {
	ForceHidden          *flow.Signal[bool]
	Airplane             *flow.Signal[bool]
	AllowedInAirplane    *flow.Signal[bool]
	Level                *flow.Signal[int]
	AlwaysShowRatIcon    *flow.Signal[bool]
	CarrierNetworkChange *flow.Signal[bool]
	DataEnabled          *flow.Signal[bool]
	DataConnected        *flow.Signal[bool]
	MobileIsDefault      *flow.Signal[bool]
	NetworkType          *flow.Signal[TypeIcon]
	Prefer4G             *flow.Signal[bool]
	Roaming              *flow.Signal[bool]
	Activity             *flow.Signal[Activity]
	Hd                   *flow.Signal[bool]
	HdForceHidden        *flow.Signal[bool]
	VoWifi               *flow.Signal[bool]
	VoWifiForceHidden    *flow.Signal[bool]
}

// NewSources builds the signal set with its initial (pre-observation)
// values: level 0, no activity, nothing shown.
func NewSources(sys *flow.System) *Sources {
	return &Sources{
		ForceHidden:          flow.NewSignal(sys, false),
		Airplane:             flow.NewSignal(sys, false),
		AllowedInAirplane:    flow.NewSignal(sys, false),
		Level:                flow.NewSignal(sys, 0),
		AlwaysShowRatIcon:    flow.NewSignal(sys, false),
		CarrierNetworkChange: flow.NewSignal(sys, false),
		DataEnabled:          flow.NewSignal(sys, false),
		DataConnected:        flow.NewSignal(sys, false),
		MobileIsDefault:      flow.NewSignal(sys, false),
		NetworkType:          flow.NewSignal(sys, TypeIcon{}),
		Prefer4G:             flow.NewSignal(sys, false),
		Roaming:              flow.NewSignal(sys, false),
		Activity:             flow.NewSignal(sys, Activity{}),
		Hd:                   flow.NewSignal(sys, false),
		HdForceHidden:        flow.NewSignal(sys, false),
		VoWifi:               flow.NewSignal(sys, false),
		VoWifiForceHidden:    flow.NewSignal(sys, false),
	}
}
