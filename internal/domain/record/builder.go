package record

import (
	"fmt"
	"sort"
	"time"

	"github.com/fieldcheck/inspectd/internal/domain/observation"
	"github.com/fieldcheck/inspectd/internal/domain/step"
)

// Build folds a session's steps and observations into a Record. It is a pure
// function: identical inputs produce an identical summary, and the only
// timestamp is the generatedAt stamped by the caller, never read inside the
// fold.
func Build(tenantID, sessionID string, steps []step.Step, obsByStep map[string][]observation.Observation, generatedAt time.Time) Record {
	ordered := make([]step.Step, len(steps))
	copy(ordered, steps)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	summary := Summary{
		Findings:        []Finding{},
		EvidenceSummary: []EvidenceRef{},
		Incomplete:      []IncompleteStep{},
		FollowUps:       []FollowUp{},
	}

	for _, st := range ordered {
		for _, obs := range obsByStep[st.ID] {
			evidenceIDs := obs.EvidenceIDs
			if evidenceIDs == nil {
				evidenceIDs = []string{}
			}
			summary.Findings = append(summary.Findings, Finding{
				StepID:      st.ID,
				Content:     obs.Content,
				Priority:    string(obs.Priority),
				CreatedBy:   obs.CreatedBy,
				EvidenceIDs: evidenceIDs,
			})
		}
		if st.Status == step.StatusPending {
			summary.Incomplete = append(summary.Incomplete, IncompleteStep{
				StepID: st.ID,
				Prompt: st.Prompt,
			})
		}
	}

	return Record{
		ID:          fmt.Sprintf("record-%s", sessionID),
		SessionID:   sessionID,
		TenantID:    tenantID,
		Summary:     summary,
		GeneratedAt: generatedAt,
		Version:     1,
	}
}
