// Package card books and runs fight cards: an ordered list of bouts headed by
// a main event, resolved one after another.
package card

import (
	"errors"
	"fmt"

	"fightnight/fight"
	"fightnight/policy"
	"fightnight/roster"
)

var (
	ErrEmptyCard    = errors.New("card has no bouts")
	ErrCardTooLarge = errors.New("card has more bouts than slots")
	ErrDoubleBooked = errors.New("fighter is booked twice on one card")
	ErrUnavailable  = errors.New("fighter is injured or retired")
)

// Slots in billing order. The first slot is the main event, the only bout
// that can be a title fight.
var Slots = []string{"Main Event", "Co-Main", "Main Card 3", "Main Card 4", "Main Card 5", "Prelim 1", "Prelim 2", "Prelim 3"}

const MainEvent = 0

type Booking struct {
	Slot string          `json:"slot"`
	Red  *roster.Fighter `json:"red"`
	Blue *roster.Fighter `json:"blue"`
}

type Card struct {
	Name  string    `json:"name"`
	Date  string    `json:"date"`
	Bouts []Booking `json:"bouts"`
}

func New(name, date string) *Card {
	return &Card{Name: name, Date: date}
}

// Book appends a bout in the next free slot.
func (c *Card) Book(red, blue *roster.Fighter) error {
	if len(c.Bouts) >= len(Slots) {
		return fmt.Errorf("%w: %d slots", ErrCardTooLarge, len(Slots))
	}
	c.Bouts = append(c.Bouts, Booking{Slot: Slots[len(c.Bouts)], Red: red, Blue: blue})
	return nil
}

// BoutContext is the resolver context for the bout at index i.
func (c *Card) BoutContext(i int) fight.Bout {
	return fight.Bout{TitleEligible: i == MainEvent, MainEvent: i == MainEvent, EventName: c.Name}
}

// Validate checks the whole card before any fight runs, so a bad booking
// never leaves a card half simulated.
func (c *Card) Validate(p policy.SimulationPolicy) error {
	if len(c.Bouts) == 0 {
		return ErrEmptyCard
	}
	if len(c.Bouts) > len(Slots) {
		return fmt.Errorf("%w: %d bouts for %d slots", ErrCardTooLarge, len(c.Bouts), len(Slots))
	}

	check := fight.NewEngine(p)
	booked := make(map[int]string)
	for _, b := range c.Bouts {
		if err := check.Validate(b.Red, b.Blue); err != nil {
			return fmt.Errorf("%s: %w", b.Slot, err)
		}
		for _, f := range []*roster.Fighter{b.Red, b.Blue} {
			if prev, ok := booked[f.ID]; ok {
				return fmt.Errorf("%w: %s in %s and %s", ErrDoubleBooked, f.Name, prev, b.Slot)
			}
			booked[f.ID] = b.Slot
			if !f.Healthy() || !f.Active() {
				return fmt.Errorf("%s: %w: %s", b.Slot, ErrUnavailable, f.Name)
			}
		}
	}
	return nil
}
