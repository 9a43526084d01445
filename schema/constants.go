package schema

import "slices"

// Custom types for type safety.
type (
	// BreakdownKey represents keys used in scoring breakdowns.
	BreakdownKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// SlotType is the opaque category code of an allocation interval.
	SlotType int

	// EmptyWindowPolicy decides availability when no interval overlaps the window.
	EmptyWindowPolicy string
)

// Breakdown keys used in the scoring logic.
const (
	BreakdownAvailability BreakdownKey = "availability"
	BreakdownDistance     BreakdownKey = "distance"
	BreakdownPriorUsage   BreakdownKey = "prior_usage"
	BreakdownRoomType     BreakdownKey = "room_type"
	BreakdownLongevity    BreakdownKey = "longevity"
	BreakdownCapacity     BreakdownKey = "capacity"
)

// AllBreakdownKeys lists the scoring signals in presentation order.
var AllBreakdownKeys = []BreakdownKey{
	BreakdownAvailability,
	BreakdownDistance,
	BreakdownPriorUsage,
	BreakdownRoomType,
	BreakdownLongevity,
	BreakdownCapacity,
}

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Slot type codes published by the room allocation service.
const (
	SlotFree             SlotType = 7
	SlotClosed           SlotType = 8
	SlotStudentWorkspace SlotType = 15
)

// FreeSlotTypes are the codes that count as available.
var FreeSlotTypes = []SlotType{SlotFree, SlotStudentWorkspace}

// IsFree reports whether the code is one of FreeSlotTypes.
func (s SlotType) IsFree() bool {
	return slices.Contains(FreeSlotTypes, s)
}

// Empty window policies.
const (
	EmptyWindowAvailable EmptyWindowPolicy = "available" // default
	EmptyWindowBusy      EmptyWindowPolicy = "busy"
)

// Campus locations.
const (
	LocationSchwerzenbach     = "Schwerzenbach"
	LocationBasel             = "Basel"
	LocationLindauEschikon    = "Lindau Eschikon"
	LocationZurichUniversitat = "Zürich Universität"
	LocationZurichHonggerberg = "Zürich Hönggerberg"
	LocationZurichOerlikon    = "Zürich Oerlikon"
	LocationZurichZentrum     = "Zürich Zentrum"
)

// AllLocations lists the campus locations in travel matrix order.
var AllLocations = []string{
	LocationSchwerzenbach,
	LocationBasel,
	LocationLindauEschikon,
	LocationZurichUniversitat,
	LocationZurichHonggerberg,
	LocationZurichOerlikon,
	LocationZurichZentrum,
}

// IsKnownLocation reports whether name is one of AllLocations.
func IsKnownLocation(name string) bool {
	return slices.Contains(AllLocations, name)
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidEmptyWindowPolicies lists all valid empty window policies.
var ValidEmptyWindowPolicies = map[EmptyWindowPolicy]struct{}{
	EmptyWindowAvailable: {},
	EmptyWindowBusy:      {},
}
