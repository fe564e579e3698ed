package entities

import "testing"

func TestCandidateLabelFormats(t *testing.T) {
	cases := []struct {
		name      string
		candidate Candidate
		want      string
	}{
		{
			name:      "house pads district to two digits",
			candidate: Candidate{Office: OfficeHouse, Name: "Ada Barnes", Party: "Federalist", State: "NY", District: 3},
			want:      "Ada Barnes (Federalist) — NY-03",
		},
		{
			name:      "house keeps wide districts",
			candidate: Candidate{Office: OfficeHouse, Name: "Cal Dorsey", Party: "Whig", State: "TX", District: 31},
			want:      "Cal Dorsey (Whig) — TX-31",
		},
		{
			name:      "senate",
			candidate: Candidate{Office: OfficeSenate, Name: "Eve Franklin", Party: "Unity", State: "VA"},
			want:      "Eve Franklin (Unity) — VA SEN",
		},
		{
			name:      "president",
			candidate: Candidate{Office: OfficePresident, Name: "Gia Holt", Party: "Unity"},
			want:      "Gia Holt (Unity) — POTUS",
		},
	}
	for _, tc := range cases {
		if got := tc.candidate.Label(); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}
