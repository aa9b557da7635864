package domain

const (
	RoleVolunteer = "VOLUNTEER"
	RoleBeekeeper = "BEEKEEPER"
	RoleAdmin     = "ADMIN"
)

// Apiary infestation levels, as reported by the beekeeper.
const (
	InfestationLight    = 1
	InfestationModerate = 2
	InfestationHeavy    = 3
)

// Paint colors volunteers use to mark hornets at a bait station.
var MarkColors = []string{"red", "blue", "yellow", "white", "green", "orange", "pink", "purple"}

func IsMarkColor(c string) bool {
	for _, m := range MarkColors {
		if m == c {
			return true
		}
	}
	return false
}

// Map list endpoints return at most this many records per layer.
const MaxMapObjectsPerLayer = 500
