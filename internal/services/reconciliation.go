package services

import (
	"merchconsole/internal/models"
)

// MergeResults adds the counts of a new pass to the prior ones. A nil prior
// means the first pass, whose counts are returned as they are.
func MergeResults(prior *models.CombinedResult, next models.CombinedResult) models.CombinedResult {
	if prior == nil {
		return next
	}
	return models.CombinedResult{
		TotalProcessed: prior.TotalProcessed + next.TotalProcessed,
		SuccessCount:   prior.SuccessCount + next.SuccessCount,
		FailCount:      prior.FailCount + next.FailCount,
	}
}
