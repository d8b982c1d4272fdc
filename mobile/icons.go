package mobile

import "github.com/cespare/xxhash/v2"

// IconID and DescID are opaque resource handles. The engine never
// interprets them; it only routes them through conversion rules. Handles
// are stable hashes of their resource names so they survive reordering
// of the resource set.
type IconID uint64

type DescID uint64

func iconHandle(name string) IconID {
	return IconID(xxhash.Sum64String("icon/" + name))
}

func descHandle(name string) DescID {
	return DescID(xxhash.Sum64String("desc/" + name))
}

// Network-type icon handles known to the display-override rules.
var (
	IconThreeG    = iconHandle("3G")
	IconFourG     = iconHandle("4G")
	IconFourGPlus = iconHandle("4G+")
	IconLTE       = iconHandle("LTE")
	IconLTEPlus   = iconHandle("LTE+")
	IconFourGLTE  = iconHandle("4G LTE")
	IconFourGLTEP = iconHandle("4G LTE+")
	IconFiveG     = iconHandle("5G")
)

var (
	DescThreeG    = descHandle("3G")
	DescFourG     = descHandle("4G")
	DescFourGPlus = descHandle("4G+")
	DescLTE       = descHandle("LTE")
	DescLTEPlus   = descHandle("LTE+")
	DescFourGLTE  = descHandle("4G LTE")
	DescFourGLTEP = descHandle("4G LTE+")
	DescFiveG     = descHandle("5G")
)

// TypeIcon is a network-type icon plus its spoken description. The zero
// value means no icon; a zero field means that half is absent.
type TypeIcon struct {
	Icon IconID
	Desc DescID
}

func (ti TypeIcon) IsZero() bool {
	return ti == TypeIcon{}
}

// The carrier-requested 4G display mapping. Structural and
// id-preserving: LTE classes map to their 4G counterparts, everything
// else passes through untouched, so applying it twice is a no-op.
var fourGIconOverrides = map[IconID]IconID{
	IconLTE:       IconFourG,
	IconFourGLTE:  IconFourG,
	IconLTEPlus:   IconFourGPlus,
	IconFourGLTEP: IconFourGPlus,
}

var fourGDescOverrides = map[DescID]DescID{
	DescLTE:       DescFourG,
	DescFourGLTE:  DescFourG,
	DescLTEPlus:   DescFourGPlus,
	DescFourGLTEP: DescFourGPlus,
}

// OverrideFourG applies the LTE→4G display mapping to the icon and
// description independently. Zero fields stay zero.
func (ti TypeIcon) OverrideFourG() TypeIcon {
	if mapped, ok := fourGIconOverrides[ti.Icon]; ok {
		ti.Icon = mapped
	}
	if mapped, ok := fourGDescOverrides[ti.Desc]; ok {
		ti.Desc = mapped
	}
	return ti
}
