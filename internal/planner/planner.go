// Package planner provides the fixed single-step planner used until an
// adaptive planner replaces it behind the same interface.
package planner

import (
	"context"
	"fmt"

	"github.com/fieldcheck/inspectd/internal/domain/session"
	"github.com/fieldcheck/inspectd/internal/domain/step"
)

// Static plans exactly one check step per session and never proposes a
// follow-up prompt.
type Static struct{}

// NewStatic creates the single-step planner.
func NewStatic() *Static {
	return &Static{}
}

// PlanInitialSteps returns one check step whose prompt restates the goal.
func (p *Static) PlanInitialSteps(_ context.Context, goal string, _ map[string]any) ([]session.PlannedStep, string, error) {
	prompt := firstPromptFor(goal)
	steps := []session.PlannedStep{
		{Order: 0, Type: step.TypeCheck, Prompt: prompt},
	}
	return steps, prompt, nil
}

// PlanNextPrompt reports that nothing follows the answered step.
func (p *Static) PlanNextPrompt(_ context.Context, currentStepID, _ string, steps []step.Step) (session.NextPlan, error) {
	if len(steps) == 0 {
		return session.NextPlan{HasNext: false}, nil
	}
	return session.NextPlan{
		CompletedStepID: currentStepID,
		HasNext:         false,
	}, nil
}

func firstPromptFor(goal string) string {
	if goal == "" {
		return "What would you like to inspect? Please describe your goal."
	}
	return fmt.Sprintf("Your goal is: %s. What is the first thing you want to check?", goal)
}
