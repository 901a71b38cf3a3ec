package reviews

import "encoding/json"

// SentimentLabel summarizes the share of positive reviews.
type SentimentLabel string

const (
	LabelNoData                 SentimentLabel = "No Data"
	LabelOverwhelminglyPositive SentimentLabel = "Overwhelmingly Positive"
	LabelVeryPositive           SentimentLabel = "Very Positive"
	LabelPositive               SentimentLabel = "Positive"
	LabelMixed                  SentimentLabel = "Mixed"
	LabelNegative               SentimentLabel = "Negative"
	LabelVeryNegative           SentimentLabel = "Very Negative"
)

// Review is a single storefront review. Only voted_up is read; the rest of
// the upstream object is kept in raw and re-emitted as is.
type Review struct {
	VotedUp bool `json:"voted_up"`

	raw json.RawMessage
}

// UnmarshalJSON decodes voted_up and retains the original document, so
// unexpected types in other fields do not fail the decode.
func (r *Review) UnmarshalJSON(data []byte) error {
	var decoded struct {
		VotedUp bool `json:"voted_up"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	r.VotedUp = decoded.VotedUp
	r.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON re-emits the upstream document when available.
func (r Review) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	type plain Review
	return json.Marshal(plain(r))
}

// Field decodes the passthrough field key into dest. It reports false when
// the review has no such field.
func (r Review) Field(key string, dest any) (bool, error) {
	if len(r.raw) == 0 {
		return false, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(r.raw, &fields); err != nil {
		return false, err
	}
	value, ok := fields[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(value, dest)
}
