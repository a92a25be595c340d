package roster

import (
	"fmt"
	"strings"
)

type WeightClass int

const (
	Flyweight WeightClass = iota
	Bantamweight
	Featherweight
	Lightweight
	Welterweight
	Middleweight
	LightHeavyweight
	Heavyweight
)

var weightClassNames = [...]string{
	Flyweight:        "Flyweight",
	Bantamweight:     "Bantamweight",
	Featherweight:    "Featherweight",
	Lightweight:      "Lightweight",
	Welterweight:     "Welterweight",
	Middleweight:     "Middleweight",
	LightHeavyweight: "Light Heavyweight",
	Heavyweight:      "Heavyweight",
}

var weightLimits = [...]int{125, 135, 145, 155, 170, 185, 205, 265}

// WeightClasses lists every division from lightest to heaviest.
func WeightClasses() []WeightClass {
	return []WeightClass{Flyweight, Bantamweight, Featherweight, Lightweight, Welterweight, Middleweight, LightHeavyweight, Heavyweight}
}

func (w WeightClass) Valid() bool {
	return w >= Flyweight && w <= Heavyweight
}

func (w WeightClass) String() string {
	if !w.Valid() {
		return fmt.Sprintf("WeightClass(%d)", int(w))
	}
	return weightClassNames[w]
}

// Limit is the division's weight limit in pounds.
func (w WeightClass) Limit() int {
	if !w.Valid() {
		return 0
	}
	return weightLimits[w]
}

// ParseWeightClass accepts display names case-insensitively, with or without spaces.
func ParseWeightClass(s string) (WeightClass, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	for _, w := range WeightClasses() {
		if strings.ToLower(strings.ReplaceAll(w.String(), " ", "")) == norm {
			return w, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWeightClass, s)
}

func (w WeightClass) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWeightClass, int(w))
	}
	return []byte(w.String()), nil
}

func (w *WeightClass) UnmarshalText(b []byte) error {
	parsed, err := ParseWeightClass(string(b))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}
