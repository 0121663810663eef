package models

import "testing"

func TestSystemLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		fixtureType string
		description string
		want        string
	}{
		{name: "vsft with suffix", fixtureType: "VSFT-12", want: "VSFT"},
		{name: "vsft lowercase", fixtureType: "vsft rack", want: "VSFT"},
		{name: "vsict", fixtureType: "VSICT", want: "VSICT"},
		{name: "saft", fixtureType: "my-SAFT-unit", want: "SAFT"},
		{name: "spea from description", fixtureType: "", description: "SPEA unit", want: "SPEA3030"},
		{name: "spea lowercase description", fixtureType: "", description: "old spea tester", want: "SPEA3030"},
		{name: "type wins over description", fixtureType: "VSFT", description: "SPEA", want: "VSFT"},
		{name: "fallback uppercases type", fixtureType: "handheld", want: "HANDHELD"},
		{name: "both empty", fixtureType: "", description: "", want: "OTHER"},
		{name: "whitespace only type", fixtureType: "   ", description: "", want: "OTHER"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := SystemLabel(tc.fixtureType, tc.description); got != tc.want {
				t.Fatalf("SystemLabel(%q, %q) = %q, want %q", tc.fixtureType, tc.description, got, tc.want)
			}
		})
	}
}

func TestClassifyAttachesLabel(t *testing.T) {
	t.Parallel()

	f := FixtureRecord{Article: "A1", FixtureType: "vsict station"}
	f.Classify()
	if f.System != "VSICT" {
		t.Fatalf("System = %q, want VSICT", f.System)
	}
}
