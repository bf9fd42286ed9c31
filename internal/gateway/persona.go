package gateway

// Persona is the coaching tone requested from the model.
type Persona string

const (
	PersonaEncouraging Persona = "encouraging"
	PersonaStrict      Persona = "strict"
	PersonaNeutral     Persona = "neutral"
)

// Personas lists the valid personas in display order.
var Personas = []Persona{PersonaEncouraging, PersonaStrict, PersonaNeutral}

// Valid reports whether p is a known persona.
func (p Persona) Valid() bool {
	_, ok := personaDescriptions[p]
	return ok
}

// Description is the tone guidance sent with each prompt.
func (p Persona) Description() string {
	if d, ok := personaDescriptions[p]; ok {
		return d
	}
	return personaDescriptions[PersonaNeutral]
}

var personaDescriptions = map[Persona]string{
	PersonaEncouraging: "Positive, supportive, celebrates progress",
	PersonaStrict:      "Direct feedback, high standards, corrects mistakes immediately",
	PersonaNeutral:     "Balanced approach, objective feedback, factual guidance",
}
