package models

import "fmt"

// ValidateOnboardingSteps checks the structural limits on a definition edit
// before it is persisted. It returns every violation found, not just the
// first, so the dashboard can surface them all together. An empty result
// means the steps are acceptable.
func ValidateOnboardingSteps(steps []Step) []string {
	var violations []string

	if len(steps) > MaxSteps {
		violations = append(violations, fmt.Sprintf("maximum %d steps allowed, got %d", MaxSteps, len(steps)))
	}

	for i, step := range steps {
		if step.ID == "" {
			violations = append(violations, fmt.Sprintf("step %d: missing id", i))
		}

		switch step.Type {
		case StepTypeMessage:
		case StepTypeDelay:
			if step.DelaySeconds < MinDelaySeconds || step.DelaySeconds > MaxDelaySeconds {
				violations = append(violations, fmt.Sprintf(
					"step %d: delay must be %d-%d seconds, got %d", i, MinDelaySeconds, MaxDelaySeconds, step.DelaySeconds))
			}
		case StepTypeAction:
			violations = append(violations, validateComponents(i, step.Components)...)
		case "":
			violations = append(violations, fmt.Sprintf("step %d: missing type", i))
		default:
			violations = append(violations, fmt.Sprintf("step %d: invalid type %q", i, step.Type))
		}
	}

	return violations
}

func validateComponents(stepIndex int, components []Component) []string {
	var violations []string

	for _, component := range components {
		switch component.Type {
		case ComponentTypeButton:
			if len(component.Options) > MaxButtonOptions {
				violations = append(violations, fmt.Sprintf(
					"step %d: max %d buttons per component, got %d", stepIndex, MaxButtonOptions, len(component.Options)))
			}
		case ComponentTypeDropdown:
			if len(component.Options) > MaxDropdownOptions {
				violations = append(violations, fmt.Sprintf(
					"step %d: max %d dropdown options, got %d", stepIndex, MaxDropdownOptions, len(component.Options)))
			}
		default:
			violations = append(violations, fmt.Sprintf("step %d: invalid component type %q", stepIndex, component.Type))
		}
	}

	return violations
}
