// Package naming hands out identifiers and display names for simulated
// things: workers, desks, meeting spaces and events.
package naming

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/google/uuid"
)

// IDGenerator produces unique string IDs with a readable kind prefix.
type IDGenerator struct {
	entropy io.Reader
}

// NewIDGenerator creates a generator that draws randomness from entropy.
// A nil reader falls back to the uuid package's crypto source; passing a
// seeded reader makes a whole simulation run reproducible.
func NewIDGenerator(entropy io.Reader) *IDGenerator {
	return &IDGenerator{entropy: entropy}
}

// New returns a fresh ID such as "desk-6f1c...".
func (g *IDGenerator) New(kind string) string {
	var (
		id  uuid.UUID
		err error
	)
	if g.entropy != nil {
		id, err = uuid.NewRandomFromReader(g.entropy)
	}
	if g.entropy == nil || err != nil {
		id = uuid.New()
	}
	return fmt.Sprintf("%s-%s", kind, id.String())
}

// Pool assigns names drawn from a theme without handing out the same name
// twice. Once the theme is exhausted names get a numeric suffix.
type Pool struct {
	rng   *rand.Rand
	theme []string
	used  map[string]bool
	free  []string
}

// NewPool creates a pool over theme using rng for selection.
func NewPool(rng *rand.Rand, theme []string) *Pool {
	p := &Pool{rng: rng, theme: theme}
	p.Reset()
	return p
}

// Reset forgets every name handed out so far.
func (p *Pool) Reset() {
	p.used = make(map[string]bool, len(p.theme))
	p.free = append(p.free[:0], p.theme...)
}

// Next returns a name not returned before since the last Reset.
func (p *Pool) Next() string {
	for len(p.free) > 0 {
		i := p.rng.IntN(len(p.free))
		name := p.free[i]
		p.free[i] = p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
		if !p.used[name] {
			return p.claim(name)
		}
	}
	base := "Worker"
	if len(p.theme) > 0 {
		base = p.theme[p.rng.IntN(len(p.theme))]
	}
	for n := 2; ; n++ {
		name := fmt.Sprintf("%s %d", base, n)
		if !p.used[name] {
			return p.claim(name)
		}
	}
}

// Claim marks name as taken, e.g. when it came from a loaded layout.
func (p *Pool) Claim(name string) {
	p.used[name] = true
}

func (p *Pool) claim(name string) string {
	p.used[name] = true
	return name
}

// Themes used by the office. Desk labels are "<Zone>-<seq>".
var (
	WorkerNames = []string{
		"Ada", "Bashir", "Chiara", "Dmitri", "Elif", "Femi", "Greta", "Hiro",
		"Ines", "Jonas", "Kalani", "Lior", "Mireille", "Nnamdi", "Oksana",
		"Priya", "Quentin", "Rosa", "Sven", "Tomasz", "Uma", "Viktor", "Wen",
		"Ximena", "Yusuf", "Zofia", "Arjun", "Beatriz", "Cyrus", "Dalia",
		"Emeka", "Freya", "Gustavo", "Hana", "Ibrahim", "Jana", "Kofi",
		"Leilani", "Mateo", "Noor",
	}

	RoomNames = []string{
		"Aurora", "Borealis", "Cascade", "Delta", "Ember", "Fjord", "Glacier",
		"Harbor", "Iris", "Juniper", "Kestrel", "Lagoon", "Meridian", "Nimbus",
	}

	Zones = []string{"North", "South", "East", "West"}

	EventTitles = []string{
		"Standup", "Sprint Planning", "Design Review", "Retro", "1:1",
		"All Hands", "Budget Sync", "Hiring Debrief", "Roadmap", "Demo Day",
		"Incident Review", "Customer Call", "Architecture Huddle", "Lunch & Learn",
	}
)
