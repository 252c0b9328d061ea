package app

import (
	"context"
	"fmt"
	"strings"

	"consumer_trends/internal/domain"
)

// Pipeline names, also used as metric labels and push job names.
const (
	PipelineAmazon   = "amazon-ingestor"
	PipelineReddit   = "reddit-ingestor"
	PipelineEnricher = "enricher"
	PipelineMerger   = "merger"
)

// maxListedFailures caps how many failures a notification body lists.
const maxListedFailures = 5

// Message turns a finished run into the one notification it deserves.
func Message(res domain.RunResult) (subject, body string, attachment *domain.Table) {
	switch res.Pipeline {
	case PipelineAmazon:
		switch {
		case res.Status == domain.RunFatal:
			return "Rapid Data Alert", fmt.Sprintf("Rapid pipeline failed. Reason: %v", res.Err), nil
		case res.HasAlert():
			return "Rapid Sentiment Spike Alert", "Please find the attached sentiment spike report.", res.Alert
		case res.NoNewData():
			return "Rapid Sentiment Update", "No new Rapid data fetched. No major weekly rapid sentiment spikes or trend shifts detected.", nil
		default:
			return "Rapid Sentiment Update", "No major weekly rapid sentiment spikes or trend shifts detected.", nil
		}

	case PipelineReddit:
		if res.Status == domain.RunFatal || len(res.Failures) > 0 {
			return "Reddit Data Failed", failureLines(res), nil
		}
		return "Reddit Data Extracted Successfully", "Pipeline completed successfully", nil

	case PipelineEnricher:
		if res.Status == domain.RunFatal {
			return "Sentiment Enrichment Failed", fmt.Sprintf("Sentiment enrichment failed. Reason: %v", res.Err), nil
		}
		return "Sentiment Enrichment Completed",
			fmt.Sprintf("Labelled %d reviews into %s (%d classification errors).", res.Total, res.Output, len(res.Failures)), nil

	case PipelineMerger:
		if res.Status == domain.RunFatal {
			return "Review Merge Failed", fmt.Sprintf("Cross-source merge failed. Reason: %v", res.Err), nil
		}
		return "Review Merge Completed", fmt.Sprintf("Wrote %d combined reviews to %s.", res.Total, res.Output), nil
	}

	if res.Status == domain.RunFatal {
		return res.Pipeline + " failed", fmt.Sprintf("Reason: %v", res.Err), nil
	}
	return res.Pipeline + " completed", fmt.Sprintf("Status: %s", res.Status), nil
}

func failureLines(res domain.RunResult) string {
	var lines []string
	if res.Err != nil {
		lines = append(lines, res.Err.Error())
	}
	for _, f := range res.Failures {
		if len(lines) == maxListedFailures {
			break
		}
		lines = append(lines, f.String())
	}
	return strings.Join(lines, "\n")
}

// Notify sends exactly one message for res.
func Notify(ctx context.Context, n domain.Notifier, res domain.RunResult) error {
	subject, body, attachment := Message(res)
	if err := n.Send(ctx, subject, body, attachment); err != nil {
		return fmt.Errorf("notify %s: %w", res.Pipeline, err)
	}
	return nil
}
