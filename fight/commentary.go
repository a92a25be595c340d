package fight

import (
	"fightnight/utils"
	"fmt"
	"math/rand"
)

type Kind string

const (
	KindRoundStart    Kind = "round"
	KindGassed        Kind = "gassed"
	KindStrikeLight   Kind = "strike_light"
	KindLegKick       Kind = "leg_kick"
	KindBodyShot      Kind = "body_shot"
	KindStrikeHeavy   Kind = "strike_heavy"
	KindStrikeMiss    Kind = "strike_miss"
	KindKnockdown     Kind = "knockdown"
	KindTakedown      Kind = "takedown"
	KindTakedownStuff Kind = "takedown_stuff"
	KindSubAttempt    Kind = "sub_attempt"
	KindKnockout      Kind = "ko"
	KindSubmission    Kind = "sub"
	KindRoundEnd      Kind = "round_end"
	KindDecision      Kind = "decision"
)

// Announcer is a fictional broadcast voice.
type Announcer struct {
	Name  string
	Style string
}

// Event is one narrated moment of a fight.
type Event struct {
	Kind       Kind   `json:"kind"`
	Round      int    `json:"round"`
	Clock      string `json:"clock,omitempty"`
	Attacker   string `json:"attacker,omitempty"`
	Defender   string `json:"defender,omitempty"`
	Action     string `json:"action"`
	Commentary string `json:"commentary,omitempty"`
	Announcer  string `json:"announcer,omitempty"`
}

func (e Event) String() string {
	line := e.Action
	if e.Clock != "" {
		line = fmt.Sprintf("[R%d %s] %s", e.Round, e.Clock, e.Action)
	}
	if e.Commentary != "" {
		line += fmt.Sprintf(" %s: %q", e.Announcer, e.Commentary)
	}
	return line
}

var announcers = []Announcer{
	{"Mike Goldwater", "play-by-play"},
	{"Joe Ruggiero", "color"},
	{"Dana Whitlock", "analyst"},
}

var actionLines = map[Kind][]string{
	KindStrikeLight:   {"lands a jab.", "pops the jab.", "connects with a quick left.", "touches them with a right.", "lands a glancing blow.", "nice 1-2 combo."},
	KindLegKick:       {"CHOPS the leg!", "lands a heavy leg kick.", "invests in a low kick.", "kicks the lead leg.", "that leg kick echoed!"},
	KindBodyShot:      {"digs to the body!", "lands a knee to the ribs.", "rips a left hook to the liver.", "teep kick to the gut."},
	KindStrikeHeavy:   {"HUGE RIGHT HAND!", "LANDS A BOMB!", "BIG KNEE TO THE HEAD!", "HEAD KICK CONNECTS!", "THEY ARE WOBBLED!", "CRUSHING overhand!", "massive elbow!"},
	KindStrikeMiss:    {"swings and misses.", "gets caught reaching.", "is a step short.", "eats a counter for the trouble."},
	KindKnockdown:     {"DROPS THEM!", "DOWN GOES THE OPPONENT!", "A HUGE KNOCKDOWN!", "they're hurt badly!"},
	KindTakedown:      {"shoots and SCORES the double leg.", "trips them to the mat.", "beautiful blast double leg.", "dumps them on their head!", "drags them down."},
	KindTakedownStuff: {"stuffs the takedown.", "shrugs them off.", "nice sprawl.", "defends the shot easily."},
	KindSubAttempt:    {"is hunting for a", "nearly locks up a", "threatens with a"},
	KindKnockout:      {"OUT COLD!", "FACE PLANT!", "IT IS ALL OVER!", "JUST LIKE THAT!", "SENT TO THE SHADOW REALM!"},
	KindSubmission:    {"TAPS! IT'S OVER!", "IT IS TIGHT! IT'S OVER!", "GOES TO SLEEP!", "GETS THE SUBMISSION!"},
	KindGassed:        {"is breathing heavy.", "has their hands down.", "looks exhausted."},
}

var submissionHolds = []string{"Rear Naked Choke", "Armbar", "Guillotine", "Triangle Choke", "Kimura", "Arm-Triangle"}

var colorLines = map[string][]string{
	"play-by-play": {
		"What a sequence!",
		"The crowd is on its feet!",
		"That changes the complexion of this fight.",
	},
	"color": {
		"You can't teach that kind of power!",
		"That's the shot they drilled all camp!",
		"Oh my goodness, did you see that?!",
	},
	"analyst": {
		"The numbers were pointing this way all night.",
		"Fight IQ on full display.",
		"Textbook execution.",
	},
}

// Line picks flavor text for an action category. Unknown kinds yield "".
func Line(rng *rand.Rand, kind Kind) string {
	pool := actionLines[kind]
	if len(pool) == 0 {
		return ""
	}
	return pool[rng.Intn(len(pool))]
}

// SubmissionHold picks the name of a finishing hold.
func SubmissionHold(rng *rand.Rand) string {
	return submissionHolds[rng.Intn(len(submissionHolds))]
}

// Commentator draws every piece of flavor text from its own random source so
// the fight mechanics never depend on what gets narrated.
type Commentator struct {
	rng *rand.Rand
}

func NewCommentator(rng *rand.Rand) *Commentator {
	return &Commentator{rng: rng}
}

func (c *Commentator) Action(kind Kind, attacker string) string {
	return fmt.Sprintf("%s %s", attacker, Line(c.rng, kind))
}

func (c *Commentator) SubmissionAttempt(attacker string) string {
	return fmt.Sprintf("%s %s %s!", attacker, Line(c.rng, KindSubAttempt), SubmissionHold(c.rng))
}

func (c *Commentator) Submission(attacker string) (hold, action string) {
	hold = SubmissionHold(c.rng)
	return hold, fmt.Sprintf("%s locks in a %s... %s", attacker, hold, Line(c.rng, KindSubmission))
}

func (c *Commentator) Clock(slot, slots int) string {
	width := utils.RoundSeconds / slots
	elapsed := slot*width + c.rng.Intn(max(width, 1))
	return utils.FightClock(utils.RoundSeconds - elapsed)
}

// Color attaches an announcer remark to big moments.
func (c *Commentator) Color(e *Event) {
	a := announcers[c.rng.Intn(len(announcers))]
	pool := colorLines[a.Style]
	e.Announcer = a.Name
	e.Commentary = pool[c.rng.Intn(len(pool))]
}

func RoundStartAction(round, total int) string {
	if round == total {
		return fmt.Sprintf("FINAL ROUND! Round %d of %d begins.", round, total)
	}
	return fmt.Sprintf("Round %d of %d begins.", round, total)
}
