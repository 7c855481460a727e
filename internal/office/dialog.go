package office

import "math/rand/v2"

var (
	happyLines      = []string{"Finally, a desk!", "Time to get to work.", "Nice spot.", "Coffee, then code."}
	idleLines       = []string{"Hmm...", "Almost done.", "Who scheduled this?", "Back in five."}
	noDeskLines     = []string{"Where do I sit?", "No desks left?", "Anyone leaving soon?"}
	deskTakenLines  = []string{"Someone's here already.", "Oh, this one's taken.", "Sorry, my mistake."}
	stolenDeskLines = []string{"Someone took my desk!", "Hey, that was my desk!", "I was sitting there!"}
	frustratedLines = []string{"I give up.", "This is ridiculous!", "Not a single desk?!"}
	roomTakenLines  = []string{"This room is booked.", "Wrong meeting, sorry.", "Is this our room?"}
	noRoomLines     = []string{"No rooms for %s!", "Skipping %s, nowhere to meet.", "Where is %s supposed to be?"}
	meetingLines    = []string{"Here for %s.", "%s, let's start.", "Made it to %s."}

	wanderLines = map[Mood][]string{
		MoodHappy:      {"Just stretching my legs.", "Nice day."},
		MoodConfused:   {"Where was I going?", "Which way is my desk?", "Hmm?"},
		MoodFrustrated: {"Ugh.", "This office...", "I need a desk!"},
	}
)

func pick(rng *rand.Rand, lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[rng.IntN(len(lines))]
}

// say replaces the worker's speech bubble. Bubbles do not queue.
func (m *Manager) say(w *Worker, text string) {
	if text == "" || m.cfg.DialogDuration == 0 {
		return
	}
	w.Dialog = &Dialog{Text: text, Start: m.currentTime, Duration: m.cfg.DialogDuration}
}

func (m *Manager) expireDialog(w *Worker) {
	if w.Dialog != nil && w.Dialog.Expired(m.currentTime) {
		w.Dialog = nil
	}
}
