package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}{
		{name: "integer", in: "12", want: 1200},
		{name: "two decimals", in: "12.34", want: 1234},
		{name: "one decimal", in: "12.3", want: 1230},
		{name: "comma separator", in: "12,34", want: 1234},
		{name: "third decimal rounds up", in: "0.105", want: 11},
		{name: "third decimal rounds down", in: "0.104", want: 10},
		{name: "leading dot", in: ".50", want: 50},
		{name: "whitespace trimmed", in: " 7.00 ", want: 700},
		{name: "empty", in: "", wantErr: true},
		{name: "negative rejected", in: "-1.00", wantErr: true},
		{name: "plus sign rejected", in: "+1.00", wantErr: true},
		{name: "letters", in: "abc", wantErr: true},
		{name: "two separators", in: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDecimalToCents(%q) = %d, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimalToCents(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestMoneyArithmeticIsExact(t *testing.T) {
	income := Money{Cents: 500_000}
	expense := Money{Cents: 123_457}

	net := income.Sub(expense)
	if net.Cents != 376_543 {
		t.Errorf("net = %d cents, want 376543", net.Cents)
	}
	if back := net.Add(expense); back != income {
		t.Errorf("net + expense = %v, want %v", back, income)
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	m := Money{Cents: 1234}
	data, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(data) != "12.34" {
		t.Errorf("MarshalJSON() = %s, want 12.34", data)
	}

	var got Money
	if err := got.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if got != m {
		t.Errorf("round trip = %v, want %v", got, m)
	}

	if err := got.UnmarshalJSON([]byte("-5")); err == nil {
		t.Error("negative amount should be rejected")
	}
}
