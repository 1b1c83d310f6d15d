package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldcheck/inspectd/internal/domain/step"
)

func TestPlanInitialSteps(t *testing.T) {
	p := NewStatic()

	steps, prompt, err := p.PlanInitialSteps(context.Background(), "inspect the roof", nil)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	require.Equal(t, 0, steps[0].Order)
	require.Equal(t, step.TypeCheck, steps[0].Type)
	require.Equal(t, "Your goal is: inspect the roof. What is the first thing you want to check?", prompt)
	require.Equal(t, prompt, steps[0].Prompt)
}

func TestPlanNextPrompt(t *testing.T) {
	p := NewStatic()

	t.Run("single-step plan never continues", func(t *testing.T) {
		plan, err := p.PlanNextPrompt(context.Background(), "st1", "all good", []step.Step{{ID: "st1"}})
		require.NoError(t, err)
		require.False(t, plan.HasNext)
		require.Empty(t, plan.Prompt)
		require.Equal(t, "st1", plan.CompletedStepID)
	})

	t.Run("no steps", func(t *testing.T) {
		plan, err := p.PlanNextPrompt(context.Background(), "st1", "all good", nil)
		require.NoError(t, err)
		require.False(t, plan.HasNext)
	})
}
