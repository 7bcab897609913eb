package analysis

// Element is one of the four classical elements.
type Element int

const (
	Fire Element = iota
	Water
	Air
	Earth
)

var elementNames = [...]string{"Fire", "Water", "Air", "Earth"}

func (e Element) String() string {
	if e < 0 || int(e) >= len(elementNames) {
		return "Unknown"
	}
	return elementNames[e]
}

// Archetype is the elemental profile derived from average energy and valence.
type Archetype struct {
	Element     Element
	Name        string // Display name: "Fuego"
	Icon        string
	Description string
	Traits      []string
}

var archetypes = [...]Archetype{
	Fire: {
		Element:     Fire,
		Name:        "Fuego",
		Icon:        "🔥",
		Description: "Pasión ardiente y energía vital",
		Traits:      []string{"Entusiasta", "Motivador", "Explosivo"},
	},
	Water: {
		Element:     Water,
		Name:        "Agua",
		Icon:        "💧",
		Description: "Fluidez emocional y serenidad",
		Traits:      []string{"Calmado", "Reflexivo", "Sanador"},
	},
	Air: {
		Element:     Air,
		Name:        "Aire",
		Icon:        "🌪️",
		Description: "Intensidad mental y transformación",
		Traits:      []string{"Dramático", "Intelectual", "Revolucionario"},
	},
	Earth: {
		Element:     Earth,
		Name:        "Tierra",
		Icon:        "🌍",
		Description: "Profundidad introspectiva y raíces",
		Traits:      []string{"Melancólico", "Filosófico", "Auténtico"},
	},
}

// ArchetypeFor maps an energy/valence pair to its quadrant.
//
// Quadrants (boundaries inclusive on the high side):
//   - High Energy + High Valence = Fire
//   - High Energy + Low Valence  = Air
//   - Low Energy  + High Valence = Water
//   - Low Energy  + Low Valence  = Earth
//
// Inputs are not range checked; values outside [0,1] fall into whichever
// quadrant the comparisons select.
func ArchetypeFor(energy, valence float64) Archetype {
	highEnergy := energy >= 0.5
	highValence := valence >= 0.5

	var e Element
	switch {
	case highEnergy && highValence:
		e = Fire
	case highEnergy && !highValence:
		e = Air
	case !highEnergy && highValence:
		e = Water
	default:
		e = Earth
	}

	a := archetypes[e]
	a.Traits = append([]string(nil), a.Traits...)
	return a
}
