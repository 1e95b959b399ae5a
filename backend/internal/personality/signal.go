package personality

import "strings"

// Signal is what one guest message implies about how the agent should
// sound. Urgency sits in [0, 1], sentiment in [-1, 1].
type Signal struct {
	Urgency   float64 `json:"urgency"`
	Sentiment float64 `json:"sentiment"`
}

var positiveWords = []string{
	"thank", "great", "wonderful", "amazing", "love", "perfect", "excellent",
}

var negativeWords = []string{
	"terrible", "awful", "disappointed", "angry", "complaint", "unacceptable",
	"dirty", "broken", "worst",
}

var urgentWords = []string{
	"urgent", "asap", "immediately", "right away", "emergency",
}

// DeriveSignal reads urgency and sentiment out of a message with simple
// keyword and punctuation counts. Deterministic: the same message always
// yields the same signal.
func DeriveSignal(message string) Signal {
	lower := strings.ToLower(message)

	var urgency float64
	if strings.Contains(message, "!") {
		urgency += 0.3
	}
	for _, word := range urgentWords {
		if strings.Contains(lower, word) {
			urgency += 0.4
			break
		}
	}
	// All-caps shouting, ignoring messages with no letters at all.
	if message == strings.ToUpper(message) && message != lower {
		urgency += 0.3
	}
	if urgency > 1 {
		urgency = 1
	}

	var sentiment float64
	for _, word := range positiveWords {
		if strings.Contains(lower, word) {
			sentiment += 0.4
		}
	}
	for _, word := range negativeWords {
		if strings.Contains(lower, word) {
			sentiment -= 0.5
		}
	}
	if sentiment > 1 {
		sentiment = 1
	}
	if sentiment < -1 {
		sentiment = -1
	}

	return Signal{Urgency: urgency, Sentiment: sentiment}
}

// traitTargets maps the signal onto the trait values the agent should
// drift toward. Upset or urgent guests pull empathy and formality up;
// happy guests get mirrored warmth; urgency raises energy and
// proactivity. Every target stays inside [0, 1].
func (s Signal) traitTargets() map[Trait]float64 {
	distress := 0.0
	if s.Sentiment < 0 {
		distress = -s.Sentiment
	}
	cheer := 0.0
	if s.Sentiment > 0 {
		cheer = s.Sentiment
	}

	return map[Trait]float64{
		TraitWarmth:      clamp(0.6 + 0.3*cheer),
		TraitFormality:   clamp(0.5 + 0.25*distress - 0.15*cheer),
		TraitEmpathy:     clamp(0.5 + 0.4*distress + 0.1*s.Urgency),
		TraitEnergy:      clamp(0.4 + 0.5*s.Urgency),
		TraitProactivity: clamp(0.5 + 0.4*s.Urgency),
	}
}
