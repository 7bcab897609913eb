package analysis

// Numerology is the reduced number of a tempo and its meaning.
type Numerology struct {
	Number  int
	Meaning string
}

const defaultNumerologyMeaning = "Ciclo de transformación"

var numerologyMeanings = map[int]string{
	1:  "Individualidad, liderazgo, inicio",
	2:  "Dualidad, pareja, equilibrio",
	3:  "Trinidad, creatividad, expresión",
	4:  "Estabilidad, fundación, orden",
	5:  "Cambio, libertad, aventura",
	6:  "Armonía, amor, responsabilidad",
	7:  "Espiritualidad, sabiduría, misterio",
	8:  "Poder, manifestación, infinito",
	9:  "Completitud, humanitarismo, final de ciclo",
	11: "Maestro espiritual, iluminación",
	22: "Maestro constructor, visión materializada",
	33: "Maestro sanador, servicio universal",
}

// NumerologyFor reduces a tempo by repeated digit sums until the result is
// at most 11 or one of the master numbers 22 and 33.
// Negative tempos are reduced by their absolute value.
func NumerologyFor(tempo int) Numerology {
	n := digitSum(tempo)
	for n > 11 && n != 22 && n != 33 {
		n = digitSum(n)
	}

	meaning, ok := numerologyMeanings[n]
	if !ok {
		meaning = defaultNumerologyMeaning
	}
	return Numerology{Number: n, Meaning: meaning}
}

func digitSum(n int) int {
	if n < 0 {
		n = -n
	}
	sum := 0
	for n > 0 {
		sum += n % 10
		n /= 10
	}
	return sum
}
