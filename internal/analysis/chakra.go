package analysis

// Chakra is the energy center associated with a pitch class.
// Frequency follows a chromatic scale anchored at C=256 Hz.
type Chakra struct {
	Note      string
	Name      string
	Color     string
	Frequency int
}

var chakras = [12]Chakra{
	{"C", "Root", "Rojo", 256},
	{"C#", "Root-Sacral", "Coral", 271},
	{"D", "Sacral", "Naranja", 288},
	{"D#", "Sacral-Solar", "Ámbar", 305},
	{"E", "Solar Plexus", "Amarillo", 323},
	{"F", "Heart", "Verde Claro", 342},
	{"F#", "Heart-Throat", "Turquesa", 362},
	{"G", "Throat", "Azul", 384},
	{"G#", "Throat-Third Eye", "Índigo", 407},
	{"A", "Third Eye", "Violeta", 432},
	{"A#", "Third Eye-Crown", "Púrpura", 457},
	{"B", "Crown", "Blanco", 484},
}

// ChakraFor returns the chakra for a pitch class.
func ChakraFor(key PitchClass) Chakra {
	return chakras[key.index()]
}
