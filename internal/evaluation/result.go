package evaluation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Verdict is the model's overall fit label.
type Verdict string

const (
	VerdictStrongMatch   Verdict = "strong match"
	VerdictPossibleMatch Verdict = "possible match"
	VerdictNotAMatch     Verdict = "not a match"
)

// Verdicts lists the closed set of labels the prompt asks for, in prompt order.
var Verdicts = []Verdict{VerdictStrongMatch, VerdictPossibleMatch, VerdictNotAMatch}

// Valid reports whether v is one of the requested labels.
func (v Verdict) Valid() bool {
	for _, known := range Verdicts {
		if v == known {
			return true
		}
	}
	return false
}

// Result is either a *Judgment or a *Failure. The marker method keeps the set closed.
type Result interface {
	isResult()
}

// Judgment is a well-formed model verdict. Pointer fields are nil when the model omitted them.
type Judgment struct {
	Score               *float64 `json:"match_score,omitempty"`
	Summary             *string  `json:"summary,omitempty"`
	Strengths           []string `json:"strengths"`
	MissingRequirements []string `json:"missing_requirements"`
	Verdict             *Verdict `json:"verdict,omitempty"`

	raw json.RawMessage
}

func (*Judgment) isResult() {}

type FailureKind int

const (
	FailureMalformedResponse FailureKind = iota + 1
	FailureServiceCall
)

func (k FailureKind) String() string {
	switch k {
	case FailureMalformedResponse:
		return "malformed_response"
	case FailureServiceCall:
		return "service_call"
	default:
		return "unknown"
	}
}

// InvalidJSONMarker is the error text stored when the model reply could not be decoded.
const InvalidJSONMarker = "Invalid JSON"

// Failure is the error record written in place of a judgment.
type Failure struct {
	Kind        FailureKind `json:"-"`
	Error       string      `json:"error"`
	RawResponse string      `json:"raw_response,omitempty"`
}

func (*Failure) isResult() {}

// Malformed builds the record for a reply that is not a usable JSON object.
func Malformed(raw string) *Failure {
	return &Failure{Kind: FailureMalformedResponse, Error: InvalidJSONMarker, RawResponse: raw}
}

// ServiceFailure builds the record for a failed completion call.
func ServiceFailure(err error) *Failure {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &Failure{Kind: FailureServiceCall, Error: msg}
}

// ParseJudgment decodes a model reply into a Judgment. The reply must be a
// single JSON object; surrounding whitespace is the only thing tolerated.
func ParseJudgment(raw string) (*Judgment, error) {
	body := strings.TrimSpace(raw)
	if !strings.HasPrefix(body, "{") {
		return nil, fmt.Errorf("evaluation: response is not a JSON object")
	}
	var j Judgment
	if err := json.Unmarshal([]byte(body), &j); err != nil {
		return nil, fmt.Errorf("evaluation: decode judgment: %w", err)
	}
	return &j, nil
}

// judgmentFields has Judgment's fields without its JSON methods.
type judgmentFields Judgment

// UnmarshalJSON reads the typed fields and keeps the whole object, so keys
// the model added are written back unchanged.
func (j *Judgment) UnmarshalJSON(data []byte) error {
	var fields judgmentFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return err
	}
	*j = Judgment(fields)
	if j.Strengths == nil {
		j.Strengths = []string{}
	}
	if j.MissingRequirements == nil {
		j.MissingRequirements = []string{}
	}
	j.raw = json.RawMessage(compact.Bytes())
	return nil
}

// MarshalJSON returns the decoded object as received. A Judgment built in
// code has no such object and is encoded from its fields.
func (j *Judgment) MarshalJSON() ([]byte, error) {
	if len(j.raw) > 0 {
		return j.raw, nil
	}
	return json.Marshal((*judgmentFields)(j))
}
