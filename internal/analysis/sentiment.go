package analysis

import (
	"math"

	"steam-trends-service/internal/domain/reviews"
)

// Sentiment is the outcome of classifying a batch of reviews.
type Sentiment struct {
	Ratio float64 // percentage of positive reviews, rounded to one decimal
	Count int
	Label reviews.SentimentLabel
}

type threshold struct {
	min   float64
	label reviews.SentimentLabel
}

// Lower bounds are inclusive and checked from highest to lowest.
var sentimentThresholds = []threshold{
	{80, reviews.LabelOverwhelminglyPositive},
	{70, reviews.LabelVeryPositive},
	{60, reviews.LabelPositive},
	{50, reviews.LabelMixed},
	{40, reviews.LabelNegative},
}

// ClassifySentiment computes the positive ratio of the given reviews and maps it to a label.
func ClassifySentiment(items []reviews.Review) Sentiment {
	if len(items) == 0 {
		return Sentiment{Ratio: 0, Count: 0, Label: reviews.LabelNoData}
	}

	positive := 0
	for _, r := range items {
		if r.VotedUp {
			positive++
		}
	}
	ratio := float64(positive*100) / float64(len(items))

	return Sentiment{
		Ratio: RoundTenth(ratio),
		Count: len(items),
		Label: LabelForRatio(ratio),
	}
}

// LabelForRatio maps a percentage in [0,100] to its sentiment label.
func LabelForRatio(ratio float64) reviews.SentimentLabel {
	for _, t := range sentimentThresholds {
		if ratio >= t.min {
			return t.label
		}
	}
	return reviews.LabelVeryNegative
}

// RoundTenth rounds to one decimal place, half away from zero.
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
