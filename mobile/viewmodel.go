package mobile

import (
	"fmt"

	"github.com/ScoopDroid/signalbar/flow"
)

// VisibilityInputs feeds the visibility precedence table.
type VisibilityInputs struct {
	ForceHidden       bool
	Airplane          bool
	AllowedInAirplane bool
}

// VisibilityRules: force-hidden beats airplane mode beats the default
// of visible. Rows are first-match-wins.
var VisibilityRules = flow.NewRuleTable(
	flow.Always[VisibilityInputs](true),
	flow.Rule[VisibilityInputs, bool]{
		Name: "force-hidden",
		When: func(in VisibilityInputs) bool { return in.ForceHidden },
		Out:  flow.Always[VisibilityInputs](false),
	},
	flow.Rule[VisibilityInputs, bool]{
		Name: "airplane-mode",
		When: func(in VisibilityInputs) bool { return in.Airplane },
		Out:  func(in VisibilityInputs) bool { return in.AllowedInAirplane },
	},
)

// RatIconInputs feeds the show-network-type-icon table.
type RatIconInputs struct {
	AlwaysShow           bool
	CarrierNetworkChange bool
	DataEnabled          bool
	DataConnected        bool
	MobileIsDefault      bool
}

// RatIconRules: the always-show carrier override wins; otherwise the
// icon shows only for a connected, enabled, default mobile connection
// with no carrier network change in flight.
var RatIconRules = flow.NewRuleTable(
	func(in RatIconInputs) bool {
		return !in.CarrierNetworkChange &&
			in.DataEnabled &&
			in.DataConnected &&
			in.MobileIsDefault
	},
	flow.Rule[RatIconInputs, bool]{
		Name: "always-show",
		When: func(in RatIconInputs) bool { return in.AlwaysShow },
		Out:  flow.Always[RatIconInputs](true),
	},
)

// HdInputs feeds the HD indicator table.
type HdInputs struct {
	Hd             bool
	HdForceHidden  bool
	VoWifiEligible bool
}

// HdRules: HD and VoWiFi are mutually exclusive and VoWiFi wins, so an
// eligible VoWiFi indicator suppresses HD even when HD is reported.
var HdRules = flow.NewRuleTable(
	func(in HdInputs) bool { return in.Hd },
	flow.Rule[HdInputs, bool]{
		Name: "hd-force-hidden",
		When: func(in HdInputs) bool { return in.HdForceHidden },
		Out:  flow.Always[HdInputs](false),
	},
	flow.Rule[HdInputs, bool]{
		Name: "vowifi-wins",
		When: func(in HdInputs) bool { return in.VoWifiEligible },
		Out:  flow.Always[HdInputs](false),
	},
)

// IconViewModel exposes every derived output for one tracked identity
// as an independent shared multicast node. All nodes read the same
// Sources and are evaluated on the same System.
type IconViewModel struct {
	ID Identity

	Visible                  *flow.State[bool]
	ContentDescription       *flow.State[DescID]
	ShowNetworkTypeIcon      *flow.State[bool]
	NetworkTypeIcon          *flow.State[TypeIcon]
	Roaming                  *flow.State[bool]
	ActivityInVisible        *flow.State[bool]
	ActivityOutVisible       *flow.State[bool]
	ActivityContainerVisible *flow.State[bool]
	VoWifiEligible           *flow.State[bool]
	ShowHd                   *flow.State[bool]

	retirees []interface{ Retire() }
	tornDown bool
}

type options struct {
	recorder  Recorder
	resources ResourceMapper
}

type Option func(*options)

// WithRecorder taps the loggable derived streams into rec.
func WithRecorder(rec Recorder) Option {
	return func(o *options) {
		o.recorder = rec
	}
}

// WithResources overrides the level→description table.
func WithResources(rm ResourceMapper) Option {
	return func(o *options) {
		o.resources = rm
	}
}

// tapOpts builds the optional transition tap for one loggable column.
func tapOpts[T comparable](rec Recorder, column string) []flow.StateOption[T] {
	if rec == nil {
		return nil
	}
	return []flow.StateOption[T]{
		flow.WithTap(func(prev, cur T) {
			rec.Record(column, fmt.Sprint(prev), fmt.Sprint(cur))
		}),
	}
}

func NewIconViewModel(id Identity, sys *flow.System, src *Sources, cfg Config, opts ...Option) *IconViewModel {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.resources == nil {
		o.resources = DefaultLevelDescriptions()
	}

	vm := &IconViewModel{ID: id}

	// Visibility. Without data capability the output is pinned false
	// and nothing recombines.
	if !cfg.DataCapable {
		vm.Visible = flow.NewState(sys, flow.NewConst(false), false,
			tapOpts[bool](o.recorder, "visible")...)
	} else {
		visibleD := flow.Computed3(sys,
			src.ForceHidden, src.Airplane, src.AllowedInAirplane,
			func(forceHidden, airplane, allowed bool) bool {
				return VisibilityRules.Apply(VisibilityInputs{
					ForceHidden:       forceHidden,
					Airplane:          airplane,
					AllowedInAirplane: allowed,
				})
			})
		vm.Visible = flow.NewState(sys, visibleD, false,
			tapOpts[bool](o.recorder, "visible")...)
	}

	// Content description: level → handle, default on invalid levels.
	defaultDesc, _ := o.resources.LookupDescription(0)
	descD := flow.Computed1(sys, src.Level, func(level int) DescID {
		d, err := o.resources.LookupDescription(level)
		if err != nil {
			return defaultDesc
		}
		return d
	})
	vm.ContentDescription = flow.NewState(sys, descD, defaultDesc)

	// Network-type icon gate and the icon itself.
	showRatD := flow.Computed5(sys,
		src.AlwaysShowRatIcon, src.CarrierNetworkChange,
		src.DataEnabled, src.DataConnected, src.MobileIsDefault,
		func(alwaysShow, carrierChange, enabled, connected, isDefault bool) bool {
			return RatIconRules.Apply(RatIconInputs{
				AlwaysShow:           alwaysShow,
				CarrierNetworkChange: carrierChange,
				DataEnabled:          enabled,
				DataConnected:        connected,
				MobileIsDefault:      isDefault,
			})
		})
	vm.ShowNetworkTypeIcon = flow.NewState(sys, showRatD, false,
		tapOpts[bool](o.recorder, "networkTypeIcon")...)

	ratIconD := flow.Computed3(sys, showRatD, src.NetworkType, src.Prefer4G,
		func(show bool, icon TypeIcon, prefer4G bool) TypeIcon {
			if !show {
				return TypeIcon{}
			}
			if prefer4G {
				icon = icon.OverrideFourG()
			}
			return icon
		})
	vm.NetworkTypeIcon = flow.NewState(sys, ratIconD, TypeIcon{})

	// Roaming is a deduplicated passthrough.
	vm.Roaming = flow.NewState[bool](sys, src.Roaming, false,
		tapOpts[bool](o.recorder, "roaming")...)

	// Activity. A platform that disables activity indicators pins all
	// three outputs false.
	if !cfg.ActivityIndicatorsEnabled {
		off := flow.NewConst(false)
		vm.ActivityInVisible = flow.NewState[bool](sys, off, false)
		vm.ActivityOutVisible = flow.NewState[bool](sys, off, false)
		vm.ActivityContainerVisible = flow.NewState[bool](sys, off, false)
	} else {
		inD := flow.Computed1(sys, src.Activity, func(a Activity) bool {
			return a.Known && a.In
		})
		outD := flow.Computed1(sys, src.Activity, func(a Activity) bool {
			return a.Known && a.Out
		})
		containerD := flow.Computed1(sys, src.Activity, func(a Activity) bool {
			return a.Known && (a.In || a.Out)
		})
		vm.ActivityInVisible = flow.NewState(sys, inD, false)
		vm.ActivityOutVisible = flow.NewState(sys, outD, false)
		vm.ActivityContainerVisible = flow.NewState(sys, containerD, false)
	}

	// VoWiFi and HD. VoWiFi eligibility feeds the HD table so the two
	// indicators can never both show.
	voWifiD := flow.Computed2(sys, src.VoWifi, src.VoWifiForceHidden,
		func(voWifi, hidden bool) bool {
			return voWifi && !hidden
		})
	vm.VoWifiEligible = flow.NewState(sys, voWifiD, false,
		tapOpts[bool](o.recorder, "vowifi")...)

	showHdD := flow.Computed3(sys, src.Hd, src.HdForceHidden, voWifiD,
		func(hd, hdHidden, voWifiEligible bool) bool {
			return HdRules.Apply(HdInputs{
				Hd:             hd,
				HdForceHidden:  hdHidden,
				VoWifiEligible: voWifiEligible,
			})
		})
	vm.ShowHd = flow.NewState(sys, showHdD, false,
		tapOpts[bool](o.recorder, "hd")...)

	vm.retirees = []interface{ Retire() }{
		vm.Visible,
		vm.ContentDescription,
		vm.ShowNetworkTypeIcon,
		vm.NetworkTypeIcon,
		vm.Roaming,
		vm.ActivityInVisible,
		vm.ActivityOutVisible,
		vm.ActivityContainerVisible,
		vm.VoWifiEligible,
		vm.ShowHd,
	}
	return vm
}

// Teardown retires every derived output. Subscribing to any of them
// afterwards panics; no derived value outlives its facade.
func (vm *IconViewModel) Teardown() {
	if vm.tornDown {
		return
	}
	vm.tornDown = true
	for _, r := range vm.retirees {
		r.Retire()
	}
}

func (vm *IconViewModel) TornDown() bool {
	return vm.tornDown
}
