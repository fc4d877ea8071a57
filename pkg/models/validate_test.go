package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateOnboardingSteps_Valid(t *testing.T) {
	t.Parallel()

	steps := []Step{
		{ID: "s1", Type: StepTypeMessage, Content: "Hello {user}"},
		{ID: "s2", Type: StepTypeDelay, DelaySeconds: 5},
		{ID: "s3", Type: StepTypeAction, Components: []Component{
			{Type: ComponentTypeButton, Options: []Option{{Label: "A", Value: "a", RoleID: "r1"}}},
			{Type: ComponentTypeDropdown, Options: []Option{{Label: "B", Value: "b", RoleID: "r2"}}},
		}},
	}

	assert.Empty(t, ValidateOnboardingSteps(steps))
}

func TestValidateOnboardingSteps_TooManyStepsDoesNotSuppressOtherChecks(t *testing.T) {
	t.Parallel()

	steps := make([]Step, 0, MaxSteps+1)
	for i := 0; i < MaxSteps; i++ {
		steps = append(steps, Step{ID: fmt.Sprintf("s%d", i), Type: StepTypeMessage})
	}
	// One over the limit, and structurally broken too.
	steps = append(steps, Step{ID: "bad", Type: StepTypeDelay, DelaySeconds: 0})

	violations := ValidateOnboardingSteps(steps)

	assert.Len(t, violations, 2)
	assert.Contains(t, violations[0], "maximum 20 steps")
	assert.Contains(t, violations[1], "delay must be 1-300")
}

func TestValidateOnboardingSteps_Violations(t *testing.T) {
	t.Parallel()

	manyButtons := make([]Option, MaxButtonOptions+1)
	manyDropdownOptions := make([]Option, MaxDropdownOptions+1)

	tests := []struct {
		name  string
		steps []Step
		want  string
	}{
		{
			name:  "missing id",
			steps: []Step{{Type: StepTypeMessage}},
			want:  "step 0: missing id",
		},
		{
			name:  "missing type",
			steps: []Step{{ID: "s1"}},
			want:  "step 0: missing type",
		},
		{
			name:  "unknown type",
			steps: []Step{{ID: "s1", Type: "loop"}},
			want:  `step 0: invalid type "loop"`,
		},
		{
			name:  "delay too short",
			steps: []Step{{ID: "s1", Type: StepTypeDelay, DelaySeconds: 0}},
			want:  "delay must be 1-300 seconds",
		},
		{
			name:  "delay too long",
			steps: []Step{{ID: "s1", Type: StepTypeDelay, DelaySeconds: 301}},
			want:  "delay must be 1-300 seconds",
		},
		{
			name: "too many buttons",
			steps: []Step{{ID: "s1", Type: StepTypeAction, Components: []Component{
				{Type: ComponentTypeButton, Options: manyButtons},
			}}},
			want: "max 5 buttons",
		},
		{
			name: "too many dropdown options",
			steps: []Step{{ID: "s1", Type: StepTypeAction, Components: []Component{
				{Type: ComponentTypeDropdown, Options: manyDropdownOptions},
			}}},
			want: "max 25 dropdown options",
		},
		{
			name: "unknown component type",
			steps: []Step{{ID: "s1", Type: StepTypeAction, Components: []Component{
				{Type: "slider"},
			}}},
			want: `invalid component type "slider"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			violations := ValidateOnboardingSteps(tt.steps)

			assert.Len(t, violations, 1)
			assert.Contains(t, violations[0], tt.want)
		})
	}
}

func TestStep_ClampedDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seconds int
		want    int
	}{
		{seconds: 0, want: 1},
		{seconds: 1, want: 1},
		{seconds: 150, want: 150},
		{seconds: 300, want: 300},
		{seconds: 5000, want: 300},
		{seconds: -3, want: 1},
	}

	for _, tt := range tests {
		step := Step{Type: StepTypeDelay, DelaySeconds: tt.seconds}
		assert.Equal(t, tt.want, step.ClampedDelay(), "seconds=%d", tt.seconds)
	}
}
