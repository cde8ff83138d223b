package cluster

import (
	"context"
	"fmt"

	"github.com/signalworks/grantradar/internal/core/common"
	"github.com/signalworks/grantradar/internal/model"
)

type llmGrouping struct {
	Groups [][]int `json:"groups"`
}

// llmGroupPool asks the configured LLM to partition the unmatched pool into
// topic groups. The response must cover every index exactly once; anything
// else is treated as a failure so the caller falls back to the similarity
// merge.
func (e *Engine) llmGroupPool(ctx context.Context, pool []model.ProcessedSource, rs *runState) ([][]int, error) {
	if len(pool) == 1 {
		return [][]int{{0}}, nil
	}

	itemList := ""
	for i, src := range pool {
		summary := src.Analysis.Summary
		if len(summary) > 200 {
			summary = summary[:200] + "..."
		}
		itemList += fmt.Sprintf("[%d] %s — %s\n", i, src.Title, summary)
	}

	prompt := fmt.Sprintf(`The following are newly discovered grant/news items that did not match any existing signal card.

<ITEMS>
%s</ITEMS>

Instructions:
Group items that describe the same underlying topic, program, or trend. Items about distinct topics go in their own group.
Return a JSON object with key "groups": a list of lists of item indices. Every index must appear in exactly one group.

Example JSON:
{
  "groups": [[0, 2], [1]]
}
`, itemList)

	response, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate grouping: %w", err)
	}
	rs.addCost(costPerLLMCall)

	result, err := common.ParseJSON[llmGrouping](response)
	if err != nil {
		return nil, err
	}

	if err := validateGrouping(result.Groups, len(pool)); err != nil {
		return nil, err
	}
	return result.Groups, nil
}

func validateGrouping(groups [][]int, n int) error {
	seen := make(map[int]bool, n)
	for _, group := range groups {
		for _, idx := range group {
			if idx < 0 || idx >= n {
				return fmt.Errorf("grouping index %d out of range [0, %d)", idx, n)
			}
			if seen[idx] {
				return fmt.Errorf("grouping index %d appears more than once", idx)
			}
			seen[idx] = true
		}
	}
	if len(seen) != n {
		return fmt.Errorf("grouping covers %d of %d items", len(seen), n)
	}
	return nil
}
