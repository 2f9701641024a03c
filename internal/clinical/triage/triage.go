// Package triage merges flagged lab values and urgent tasks into one
// ranked list used by the triage banner and handover text. It only
// orders what it is given: callers exclude acknowledged or completed
// items before aggregation.
package triage

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/wardboard/wardboard/internal/clinical/severity"
)

// Kind identifies the source of a priority item.
type Kind int

const (
	KindLab Kind = iota
	KindTask
)

func (k Kind) String() string {
	if k == KindTask {
		return "task"
	}
	return "lab"
}

// MarshalJSON encodes the kind as its string label.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a string label into a kind.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "lab":
		*k = KindLab
	case "task":
		*k = KindTask
	default:
		return fmt.Errorf("unknown priority item kind: %q", s)
	}
	return nil
}

// Item is one entry in the ranked triage list. Ephemeral: rebuilt on
// every aggregation call.
type Item struct {
	Kind       Kind          `json:"kind"`
	PatientRef string        `json:"patient_ref"`
	Detail     string        `json:"detail"`
	Rank       severity.Rank `json:"severity"`
}

// Aggregate merges critical lab values and urgent tasks into a single
// list ordered by severity, highest first. Within equal severity the
// input order is preserved (labs before tasks), which keeps generated
// handover text reproducible. Items identical in kind, patient, and
// detail are collapsed to one entry at their highest severity, so a
// result repeated across panels does not repeat in handover text.
func Aggregate(labItems, taskItems []Item) []Item {
	merged := make([]Item, 0, len(labItems)+len(taskItems))
	merged = append(merged, labItems...)
	merged = append(merged, taskItems...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Rank > merged[j].Rank
	})

	type key struct {
		kind       Kind
		patientRef string
		detail     string
	}
	seen := make(map[key]struct{}, len(merged))
	out := merged[:0]
	for _, it := range merged {
		k := key{it.Kind, it.PatientRef, it.Detail}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}
