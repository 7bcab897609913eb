package analysis

import "math"

// Card is a major arcana card.
type Card struct {
	Number  int
	Name    string
	Element Element
	Meaning string
}

// Major arcana cards referenced by the selection rules.
const (
	TheFool        = 0
	TheLovers      = 6
	TheHermit      = 9
	WheelOfFortune = 10
	Temperance     = 14
	TheTower       = 16
	TheStar        = 17
	TheMoon        = 18
	TheSun         = 19
)

var majorArcana = [22]Card{
	{0, "El Loco", Air, "Inicio del viaje, espontaneidad, fe ciega"},
	{1, "El Mago", Air, "Manifestación, poder de voluntad, recursos"},
	{2, "La Sacerdotisa", Water, "Intuición, misterio, sabiduría oculta"},
	{3, "La Emperatriz", Earth, "Abundancia, fertilidad, belleza"},
	{4, "El Emperador", Fire, "Autoridad, estructura, paternidad"},
	{5, "El Hierofante", Earth, "Tradición, enseñanza, conformidad"},
	{6, "Los Enamorados", Air, "Elección, unión, dualidad"},
	{7, "El Carro", Water, "Voluntad, triunfo, dirección"},
	{8, "La Fuerza", Fire, "Coraje, compasión, control interno"},
	{9, "El Ermitaño", Earth, "Introspección, sabiduría, soledad"},
	{10, "La Rueda de la Fortuna", Fire, "Ciclos, destino, cambio"},
	{11, "La Justicia", Air, "Equilibrio, causa-efecto, verdad"},
	{12, "El Colgado", Water, "Sacrificio, nueva perspectiva, pausa"},
	{13, "La Muerte", Water, "Transformación, final, renacimiento"},
	{14, "La Templanza", Fire, "Moderación, alquimia, paciencia"},
	{15, "El Diablo", Earth, "Atadura, materialismo, sombra"},
	{16, "La Torre", Fire, "Revelación súbita, colapso, liberación"},
	{17, "La Estrella", Air, "Esperanza, inspiración, serenidad"},
	{18, "La Luna", Water, "Ilusión, subconsciente, misterio"},
	{19, "El Sol", Fire, "Alegría, éxito, vitalidad"},
	{20, "El Juicio", Fire, "Renacer, llamado, absolución"},
	{21, "El Mundo", Earth, "Completitud, logro, integración"},
}

// ArcanaCard returns the major arcana card with the given number.
// ok is false for numbers outside 0-21.
func ArcanaCard(number int) (Card, bool) {
	if number < 0 || number >= len(majorArcana) {
		return Card{}, false
	}
	return majorArcana[number], true
}

// tarotRule pairs a predicate with the card it selects.
type tarotRule struct {
	card    int
	matches func(energy, valence, tempo float64) bool
}

// tarotRules are evaluated in order; the ranges overlap, so the first match wins.
var tarotRules = []tarotRule{
	{TheSun, func(e, v, _ float64) bool { return e >= 0.7 && v >= 0.7 }},
	{TheStar, func(e, v, _ float64) bool { return e < 0.5 && v >= 0.6 }},
	{TheTower, func(e, v, _ float64) bool { return e >= 0.7 && v < 0.4 }},
	{TheHermit, func(e, v, _ float64) bool { return e < 0.5 && v < 0.4 }},
	{WheelOfFortune, func(_, _, t float64) bool { return t >= 100 && t <= 120 }},
	{Temperance, func(e, v, _ float64) bool { return math.Abs(e-0.5) < 0.2 && math.Abs(v-0.5) < 0.2 }},
	{TheLovers, func(_, v, _ float64) bool { return v >= 0.5 && v < 0.7 }},
	{TheMoon, func(e, v, _ float64) bool { return e < 0.6 && v < 0.5 }},
}

// TarotCard selects the major arcana card for a track's energy, valence and tempo.
// The Fool is returned when no rule matches.
func TarotCard(energy, valence, tempo float64) Card {
	for _, r := range tarotRules {
		if r.matches(energy, valence, tempo) {
			return majorArcana[r.card]
		}
	}
	return majorArcana[TheFool]
}

// ElementalSuit is the minor arcana suit associated with a tempo band.
type ElementalSuit struct {
	Element Element
	Suit    string
	Quality string
}

// TempoElement buckets a BPM value into one of four elemental suits.
func TempoElement(bpm float64) ElementalSuit {
	switch {
	case bpm < 90:
		return ElementalSuit{Earth, "Pentáculos", "Grounded, meditative, introspective"}
	case bpm < 110:
		return ElementalSuit{Water, "Copas", "Emotional, flowing, reflective"}
	case bpm < 130:
		return ElementalSuit{Air, "Espadas", "Mental, balanced, communicative"}
	default:
		return ElementalSuit{Fire, "Bastos", "Energetic, passionate, dynamic"}
	}
}
