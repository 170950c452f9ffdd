package wizard

import "fmt"

// Step is a wizard state. Steps advance in declaration order.
type Step int

const (
	StepChooseTrainer Step = iota + 1
	StepChooseMode
	StepConfigure
	StepSubmitted
)

var stepNames = map[Step]string{
	StepChooseTrainer: "choose_trainer",
	StepChooseMode:    "choose_mode",
	StepConfigure:     "configure",
	StepSubmitted:     "submitted",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// MarshalText encodes the step by name so stored sessions stay readable.
func (s Step) MarshalText() ([]byte, error) {
	name, ok := stepNames[s]
	if !ok {
		return nil, fmt.Errorf("wizard: unknown step %d", int(s))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a step name written by MarshalText.
func (s *Step) UnmarshalText(b []byte) error {
	for step, name := range stepNames {
		if name == string(b) {
			*s = step
			return nil
		}
	}
	return fmt.Errorf("wizard: unknown step %q", b)
}
