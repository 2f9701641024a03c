package severity

import (
	"encoding/json"
	"testing"
)

func TestRankOrdering(t *testing.T) {
	if !(RankCritical > RankHigh && RankHigh > RankMedium && RankMedium > RankLow) {
		t.Fatal("rank ordering must be critical > high > medium > low")
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		label   string
		want    Rank
		wantErr bool
	}{
		{"critical", RankCritical, false},
		{"high", RankHigh, false},
		{"medium", RankMedium, false},
		{"default", RankMedium, false},
		{"", RankMedium, false},
		{"low", RankLow, false},
		{"urgent", RankMedium, true},
	}
	for _, tc := range cases {
		got, err := Parse(tc.label)
		if (err != nil) != tc.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tc.label, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.label, got, tc.want)
		}
	}
}

func TestRankJSONRoundTrip(t *testing.T) {
	for _, r := range []Rank{RankLow, RankMedium, RankHigh, RankCritical} {
		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("marshal %v: %v", r, err)
		}
		var decoded Rank
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if decoded != r {
			t.Errorf("round trip %v: got %v", r, decoded)
		}
	}
}
