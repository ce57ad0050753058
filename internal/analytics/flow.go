package analytics

import (
	"fmt"

	"job-tracker/internal/models"
)

// Node indexes of the flow graph.
const (
	NodeApplied = iota
	NodeRejected
	NodeGhosted
	NodeOffer
	NodeInterviewing
)

// Link colours, by destination.
const (
	ColorGhosted      = "rgba(184, 161, 214, 0.5)"
	ColorRejected     = "rgba(255, 107, 107, 0.5)"
	ColorInterviewing = "rgba(77, 182, 172, 0.5)"
	ColorOffer        = "rgba(124, 179, 66, 0.5)"
)

type FlowLink struct {
	Source int    `json:"source"`
	Target int    `json:"target"`
	Value  int    `json:"value"`
	Color  string `json:"color"`
}

type FlowCounts struct {
	Applied      int `json:"applied"`
	Rejected     int `json:"rejected"`
	Ghosted      int `json:"ghosted"`
	Offer        int `json:"offer"`
	Interviewing int `json:"interviewing"`
}

// Flow is a five-node Sankey diagram of where applications ended up.
type Flow struct {
	Labels []string   `json:"labels"`
	Links  []FlowLink `json:"links"`
	Counts FlowCounts `json:"counts"`
}

// ComputeFlow builds the outcome diagram from current statuses. Interviewing
// aggregates Interview and Offer; Ghosted aggregates Applied and Interview.
// Only links with a positive value are emitted.
func ComputeFlow(apps []models.Application) Flow {
	applied := Applied(apps)
	counts := countByStatus(applied)

	c := FlowCounts{
		Applied:      len(applied),
		Rejected:     counts[models.StatusRejected],
		Ghosted:      counts[models.StatusApplied] + counts[models.StatusInterview],
		Offer:        counts[models.StatusOffer],
		Interviewing: counts[models.StatusInterview] + counts[models.StatusOffer],
	}

	flow := Flow{
		Labels: []string{
			fmt.Sprintf("APPLIED (%d)", c.Applied),
			fmt.Sprintf("REJECTED (%d)", c.Rejected),
			fmt.Sprintf("GHOSTED (%d)", c.Ghosted),
			fmt.Sprintf("OFFER (%d)", c.Offer),
			fmt.Sprintf("INTERVIEWING (%d)", c.Interviewing),
		},
		Links:  []FlowLink{},
		Counts: c,
	}

	add := func(source, target, value int, color string) {
		if value > 0 {
			flow.Links = append(flow.Links, FlowLink{Source: source, Target: target, Value: value, Color: color})
		}
	}
	add(NodeApplied, NodeGhosted, counts[models.StatusApplied], ColorGhosted)
	add(NodeApplied, NodeRejected, c.Rejected, ColorRejected)
	add(NodeApplied, NodeInterviewing, c.Interviewing, ColorInterviewing)
	add(NodeInterviewing, NodeOffer, c.Offer, ColorOffer)
	add(NodeInterviewing, NodeGhosted, counts[models.StatusInterview], ColorGhosted)
	return flow
}
