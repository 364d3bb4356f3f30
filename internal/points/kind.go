package points

import (
	"fmt"
	"strings"
)

// Kind is the geometric role of a point. Each painter owns exactly one kind.
type Kind int

const (
	KindBound Kind = iota
	KindWeaponSlot
	KindEngine
	KindLaunchPort
	KindShipCenter
	KindShieldCenter
)

func (k Kind) String() string {
	switch k {
	case KindBound:
		return "Bound"
	case KindWeaponSlot:
		return "WeaponSlot"
	case KindEngine:
		return "Engine"
	case KindLaunchPort:
		return "LaunchPort"
	case KindShipCenter:
		return "ShipCenter"
	case KindShieldCenter:
		return "ShieldCenter"
	default:
		return "Unknown"
	}
}

// WeaponType is the slot's accepted weapon category.
type WeaponType int

const (
	TypeBallistic WeaponType = iota
	TypeEnergy
	TypeMissile
	TypeLaunchBay
	TypeUniversal
	TypeHybrid
	TypeSynergy
	TypeComposite
	TypeBuiltIn
	TypeDecorative
	TypeSystem
	TypeStationModule
)

var weaponTypeIDs = []string{
	"BALLISTIC", "ENERGY", "MISSILE", "LAUNCH_BAY", "UNIVERSAL", "HYBRID",
	"SYNERGY", "COMPOSITE", "BUILT_IN", "DECORATIVE", "SYSTEM", "STATION_MODULE",
}

func (t WeaponType) String() string {
	if int(t) >= 0 && int(t) < len(weaponTypeIDs) {
		return weaponTypeIDs[t]
	}
	return "UNKNOWN"
}

// ParseWeaponType converts a serialized id such as "MISSILE".
func ParseWeaponType(s string) (WeaponType, error) {
	i, err := parseID(s, weaponTypeIDs)
	if err != nil {
		return 0, fmt.Errorf("weapon type: %w", err)
	}
	return WeaponType(i), nil
}

// WeaponMount is how a weapon sits in its slot.
type WeaponMount int

const (
	MountTurret WeaponMount = iota
	MountHardpoint
	MountHidden
)

var weaponMountIDs = []string{"TURRET", "HARDPOINT", "HIDDEN"}

func (m WeaponMount) String() string {
	if int(m) >= 0 && int(m) < len(weaponMountIDs) {
		return weaponMountIDs[m]
	}
	return "UNKNOWN"
}

// ParseWeaponMount converts a serialized id such as "HARDPOINT".
func ParseWeaponMount(s string) (WeaponMount, error) {
	i, err := parseID(s, weaponMountIDs)
	if err != nil {
		return 0, fmt.Errorf("weapon mount: %w", err)
	}
	return WeaponMount(i), nil
}

// WeaponSize is the slot's size class.
type WeaponSize int

const (
	SizeSmall WeaponSize = iota
	SizeMedium
	SizeLarge
)

var weaponSizeIDs = []string{"SMALL", "MEDIUM", "LARGE"}

func (s WeaponSize) String() string {
	if int(s) >= 0 && int(s) < len(weaponSizeIDs) {
		return weaponSizeIDs[s]
	}
	return "UNKNOWN"
}

// ParseWeaponSize converts a serialized id such as "LARGE".
func ParseWeaponSize(s string) (WeaponSize, error) {
	i, err := parseID(s, weaponSizeIDs)
	if err != nil {
		return 0, fmt.Errorf("weapon size: %w", err)
	}
	return WeaponSize(i), nil
}

func parseID(s string, ids []string) (int, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, id := range ids {
		if id == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown id %q", s)
}

// Visibility controls when a painter's points are drawn.
type Visibility int

const (
	ShownWhenActive Visibility = iota
	ShownAlways
	Hidden
)
