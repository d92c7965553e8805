// Package placement computes where word bubbles appear on screen.
package placement

// Mode is a bubble placement strategy.
type Mode int

const (
	ModeRandom Mode = iota
	ModeTopLeft
	ModeTopRight
	ModeBottomLeft
	ModeBottomRight
	ModeCenter
	ModeCascadeTopLeft
	ModeCascadeTopRight
	ModeCascadeTopCenter
	ModeLeftToRightTopLeft
	ModeLeftToRightBottomLeft
	ModeRightToLeftTopRight
	ModeRightToLeftBottomRight
	ModeCascadeRightToLeftTopRight
	ModeCascadeLeftToRightTopLeft
	ModeCascadeRightToLeftBottomRight
	ModeCascadeLeftToRightBottomLeft
	ModeTopToBottomTopLeft
	ModeTopToBottomTopCenter
	ModeTopToBottomTopRight

	modeCount
)

// Family groups modes that share a placement algorithm.
type Family int

const (
	FamilyRandom Family = iota
	FamilyFixed
	FamilyCascade
	FamilySweep
	FamilyCascadeSweep
)

func (f Family) String() string {
	switch f {
	case FamilyFixed:
		return "fixed"
	case FamilyCascade:
		return "cascade"
	case FamilySweep:
		return "sweep"
	case FamilyCascadeSweep:
		return "cascade-sweep"
	default:
		return "random"
	}
}

var modeNames = [modeCount]string{
	ModeRandom:                        "random",
	ModeTopLeft:                       "top_left",
	ModeTopRight:                      "top_right",
	ModeBottomLeft:                    "bottom_left",
	ModeBottomRight:                   "bottom_right",
	ModeCenter:                        "center",
	ModeCascadeTopLeft:                "cascade_top_left",
	ModeCascadeTopRight:               "cascade_top_right",
	ModeCascadeTopCenter:              "cascade_top_center",
	ModeLeftToRightTopLeft:            "left_to_right_top_left",
	ModeLeftToRightBottomLeft:         "left_to_right_bottom_left",
	ModeRightToLeftTopRight:           "right_to_left_top_right",
	ModeRightToLeftBottomRight:        "right_to_left_bottom_right",
	ModeCascadeRightToLeftTopRight:    "cascade_right_to_left_top_right",
	ModeCascadeLeftToRightTopLeft:     "cascade_left_to_right_top_left",
	ModeCascadeRightToLeftBottomRight: "cascade_right_to_left_bottom_right",
	ModeCascadeLeftToRightBottomLeft:  "cascade_left_to_right_bottom_left",
	ModeTopToBottomTopLeft:            "top_to_bottom_top_left",
	ModeTopToBottomTopCenter:          "top_to_bottom_top_center",
	ModeTopToBottomTopRight:           "top_to_bottom_top_right",
}

var modesByName = func() map[string]Mode {
	m := make(map[string]Mode, modeCount)
	for i, name := range modeNames {
		m[name] = Mode(i)
	}
	return m
}()

// ParseMode resolves a mode name. Unknown names resolve to ModeRandom.
func ParseMode(name string) Mode {
	if m, ok := modesByName[name]; ok {
		return m
	}
	return ModeRandom
}

// IsValidMode reports whether name is one of the known mode names.
func IsValidMode(name string) bool {
	_, ok := modesByName[name]
	return ok
}

// AllModes returns every placement mode in declaration order.
func AllModes() []Mode {
	modes := make([]Mode, modeCount)
	for i := range modes {
		modes[i] = Mode(i)
	}
	return modes
}

// String returns the settings name of the mode.
func (m Mode) String() string {
	if m < 0 || m >= modeCount {
		return modeNames[ModeRandom]
	}
	return modeNames[m]
}

// Family returns the algorithm family the mode belongs to.
func (m Mode) Family() Family {
	switch m {
	case ModeTopLeft, ModeTopRight, ModeBottomLeft, ModeBottomRight, ModeCenter:
		return FamilyFixed
	case ModeCascadeTopLeft, ModeCascadeTopRight, ModeCascadeTopCenter:
		return FamilyCascade
	case ModeLeftToRightTopLeft, ModeLeftToRightBottomLeft,
		ModeRightToLeftTopRight, ModeRightToLeftBottomRight,
		ModeTopToBottomTopLeft, ModeTopToBottomTopCenter, ModeTopToBottomTopRight:
		return FamilySweep
	case ModeCascadeRightToLeftTopRight, ModeCascadeLeftToRightTopLeft,
		ModeCascadeRightToLeftBottomRight, ModeCascadeLeftToRightBottomLeft:
		return FamilyCascadeSweep
	default:
		return FamilyRandom
	}
}

// SlotKey returns the cascade registry key used by the mode, or "" for
// modes that keep no shared state.
func (m Mode) SlotKey() SlotKey {
	switch m {
	case ModeCascadeTopLeft:
		return SlotTopLeft
	case ModeCascadeTopRight:
		return SlotTopRight
	case ModeCascadeTopCenter:
		return SlotTopCenter
	case ModeCascadeRightToLeftTopRight:
		return SlotRightToLeftTopRight
	case ModeCascadeLeftToRightTopLeft:
		return SlotLeftToRightTopLeft
	case ModeCascadeRightToLeftBottomRight:
		return SlotRightToLeftBottomRight
	case ModeCascadeLeftToRightBottomLeft:
		return SlotLeftToRightBottomLeft
	default:
		return ""
	}
}
