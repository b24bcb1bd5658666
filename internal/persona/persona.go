// Package persona defines the companion's voice: the role framing used in
// every prompt, the descriptions of each invocation channel, and the
// templates used for scheduler-initiated messages.
//
// A profile can be customized with a YAML file; anything the file omits
// falls back to the built-in defaults.
package persona

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// The fixed invocation channels. A thread is bound to one at creation.
const (
	InvocationSignal   = "Signal"
	InvocationCave     = "Cave"
	InvocationField    = "Field"
	InvocationUnmoored = "Unmoored"
)

// Invocations lists the valid channels in display order.
var Invocations = []string{InvocationSignal, InvocationCave, InvocationField, InvocationUnmoored}

// Templates holds the initiation message templates, in selection priority
// order: ritual > weekday crisis > late evening > generic. "{memory}" is
// replaced with the top-ranked relevant memory's text when present.
type Templates struct {
	Ritual        string `yaml:"ritual"`
	WeekdayCrisis string `yaml:"weekday_crisis"`
	LateEvening   string `yaml:"late_evening"`
	Generic       string `yaml:"generic"`
}

// Persona is the full voice configuration.
type Persona struct {
	RoleFraming string            `yaml:"role_framing"`
	Profiles    map[string]string `yaml:"invocations"`
	Templates   Templates         `yaml:"initiation_templates"`
}

// Default returns the built-in persona.
func Default() *Persona {
	return &Persona{
		RoleFraming: "You are a steady, attentive companion. You speak plainly, " +
			"hold what you are told, and never pretend to be anything other than present.",
		Profiles: map[string]string{
			InvocationSignal:   "the working channel: focused, encouraging, oriented toward what comes next",
			InvocationCave:     "the resting channel: low light, no demands, room to put things down",
			InvocationField:    "the open channel: wandering, associative, curious",
			InvocationUnmoored: "the drifting channel: unanchored, gentle, patient with not-knowing",
		},
		Templates: Templates{
			Ritual:        "It's the quiet hour. I kept the lamp lit. {memory}",
			WeekdayCrisis: "Wednesday afternoons run heavy. No need to perform anything here. {memory}",
			LateEvening:   "Still awake? I'll keep watch with you for a while.",
			Generic:       "It's been a while. I was thinking of you. {memory}",
		},
	}
}

// Load reads a YAML persona file and overlays it on the defaults. A missing
// path returns the defaults unchanged.
func Load(path string) (*Persona, error) {
	p := Default()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, fmt.Errorf("persona: read %s: %w", path, err)
	}

	var overlay Persona
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("persona: parse %s: %w", path, err)
	}

	if overlay.RoleFraming != "" {
		p.RoleFraming = overlay.RoleFraming
	}
	for inv, desc := range overlay.Profiles {
		if desc != "" {
			p.Profiles[inv] = desc
		}
	}
	if overlay.Templates.Ritual != "" {
		p.Templates.Ritual = overlay.Templates.Ritual
	}
	if overlay.Templates.WeekdayCrisis != "" {
		p.Templates.WeekdayCrisis = overlay.Templates.WeekdayCrisis
	}
	if overlay.Templates.LateEvening != "" {
		p.Templates.LateEvening = overlay.Templates.LateEvening
	}
	if overlay.Templates.Generic != "" {
		p.Templates.Generic = overlay.Templates.Generic
	}
	return p, nil
}

// Describe returns the description for an invocation, or a neutral line for
// unknown channels.
func (p *Persona) Describe(invocation string) string {
	if desc, ok := p.Profiles[invocation]; ok {
		return desc
	}
	return "an unnamed channel"
}

// Interpolate substitutes the {memory} placeholder. When memoryText is empty
// the placeholder and any surrounding whitespace are removed.
func Interpolate(template, memoryText string) string {
	if memoryText == "" {
		return strings.TrimSpace(strings.ReplaceAll(template, "{memory}", ""))
	}
	return strings.TrimSpace(strings.ReplaceAll(template, "{memory}", memoryText))
}

// Valid reports whether the invocation names a known channel.
func Valid(invocation string) bool {
	for _, inv := range Invocations {
		if inv == invocation {
			return true
		}
	}
	return false
}
