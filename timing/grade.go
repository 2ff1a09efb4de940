package timing

// Grade is the banded quality of an input's timing.
type Grade int

const (
	Perfect Grade = iota
	Good
	Ok
	Miss
)

// Upper accuracy bound of each band, inclusive.
const (
	perfectAccuracy = 0.3
	goodAccuracy    = 0.6
	okAccuracy      = 1.0
)

// Grades lists every grade from best to worst.
var Grades = []Grade{Perfect, Good, Ok, Miss}

func (g Grade) String() string {
	switch g {
	case Perfect:
		return "Perfect"
	case Good:
		return "Good"
	case Ok:
		return "Ok"
	case Miss:
		return "Miss"
	default:
		return "Unknown"
	}
}

// GradeFor bands an accuracy value. Each band includes its upper boundary.
func GradeFor(accuracy float64) Grade {
	switch {
	case accuracy <= perfectAccuracy+slack:
		return Perfect
	case accuracy <= goodAccuracy+slack:
		return Good
	case accuracy <= okAccuracy+slack:
		return Ok
	default:
		return Miss
	}
}
