package http

import (
	"tickstats/internal/stats"
	api "tickstats/pkg/contracts/api/v1"
)

// newStatsResponse converts an engine result to its wire form
func newStatsResponse(r stats.Result) api.StatsResponse {
	return api.StatsResponse{
		Min:  api.Float(r.Min),
		Max:  api.Float(r.Max),
		Last: api.Float(r.Last),
		Avg:  api.Float(r.Avg),
		Var:  api.Float(r.Var),
	}
}

// newScaleResponses converts engine scale summaries to their wire form.
// Unavailable scales carry no stats.
func newScaleResponses(summaries []stats.ScaleSummary) []api.ScaleResponse {
	out := make([]api.ScaleResponse, 0, len(summaries))
	for _, s := range summaries {
		row := api.ScaleResponse{K: int(s.Scale), Length: s.Length, Available: s.Available}
		if s.Result != nil {
			resp := newStatsResponse(*s.Result)
			row.Stats = &resp
		}
		out = append(out, row)
	}
	return out
}
