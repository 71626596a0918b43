package command

import (
	"errors"
	"testing"

	"github.com/louisbranch/partyledger/internal/ledger/currency"
	"github.com/louisbranch/partyledger/internal/ledger/domain"
)

func TestParseTransact(t *testing.T) {
	tests := []struct {
		name     string
		operands string
		want     Instruction
	}{
		{
			name:     "bare give",
			operands: "give 400 sp",
			want: Instruction{
				Mode:    domain.ModeGive,
				Amounts: currency.Amounts{currency.Silver: 400},
			},
		},
		{
			name:     "take with multiple coins",
			operands: "take 2 CP, 5 SP",
			want: Instruction{
				Mode:    domain.ModeTake,
				Amounts: currency.Amounts{currency.Copper: 2, currency.Silver: 5},
			},
		},
		{
			name:     "fractional egp decomposes",
			operands: "give 24.53 EGP",
			want: Instruction{
				Mode:    domain.ModeGive,
				Amounts: currency.Amounts{currency.Copper: 3, currency.Silver: 5, currency.Gold: 24},
			},
		},
		{
			name:     "full command",
			operands: "as player1 give 45 gp at -20% to player2 for buying used scale mail",
			want: Instruction{
				InitiatorName:   "player1",
				Mode:            domain.ModeGive,
				Amounts:         currency.Amounts{currency.Gold: 45},
				OffsetPct:       -20,
				HasOffset:       true,
				ParticipantName: "player2",
				Reason:          "buying used scale mail",
			},
		},
		{
			name:     "reason consumes keywords verbatim",
			operands: "take 1 pp from Bob for payment to give at the gate",
			want: Instruction{
				Mode:            domain.ModeTake,
				Amounts:         currency.Amounts{currency.Platinum: 1},
				ParticipantName: "Bob",
				Reason:          "payment to give at the gate",
			},
		},
		{
			name:     "positive offset",
			operands: "give 10 gp at +5%",
			want: Instruction{
				Mode:      domain.ModeGive,
				Amounts:   currency.Amounts{currency.Gold: 10},
				OffsetPct: 5,
				HasOffset: true,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTransact(tt.operands)
			if err != nil {
				t.Fatalf("parse transact: %v", err)
			}
			if got != tt.want {
				t.Fatalf("parse transact = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseTransactErrors(t *testing.T) {
	tests := []struct {
		name     string
		operands string
	}{
		{"empty", ""},
		{"first token not a keyword", "5 gp give"},
		{"missing mode", "as player1 for fun"},
		{"both give and take", "give 1 gp take 1 gp"},
		{"to with take", "take 5 gp to Bob"},
		{"from with give", "give 5 gp from Bob"},
		{"malformed amount", "give gp 5"},
		{"non-numeric amount", "give five gp"},
		{"fractional coin amount", "give 2.5 gp"},
		{"unknown unit", "give 5 zp"},
		{"unsigned offset", "give 5 gp at 20%"},
		{"offset missing percent", "give 5 gp at -20"},
		{"offset not a number", "give 5 gp at -x%"},
		{"trailing keyword without value", "give 5 gp to"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseTransact(tt.operands); !errors.Is(err, ErrSyntax) {
				t.Fatalf("parse transact error = %v, want %v", err, ErrSyntax)
			}
		})
	}
}

func TestParseRegistration(t *testing.T) {
	tests := []struct {
		name     string
		operands string
		want     Registration
		wantErr  bool
	}{
		{"self", "as Alice", Registration{Name: "Alice"}, false},
		{"override", "99 as Alice", Registration{OverrideID: 99, Name: "Alice"}, false},
		{"missing as", "Alice", Registration{}, true},
		{"non-numeric id", "nine as Alice", Registration{}, true},
		{"zero id", "0 as Alice", Registration{}, true},
		{"extra tokens", "as Alice please", Registration{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRegistration(tt.operands)
			if tt.wantErr {
				if !errors.Is(err, ErrSyntax) {
					t.Fatalf("parse registration error = %v, want %v", err, ErrSyntax)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse registration: %v", err)
			}
			if got != tt.want {
				t.Fatalf("parse registration = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseConversion(t *testing.T) {
	got, err := ParseConversion("2 gp to sp, 30 cp to sp")
	if err != nil {
		t.Fatalf("parse conversion: %v", err)
	}
	want := Conversion{Delta: currency.Amounts{
		currency.Copper: -30,
		currency.Silver: 23,
		currency.Gold:   -2,
	}}
	if got != want {
		t.Fatalf("parse conversion = %+v, want %+v", got, want)
	}
}

func TestParseConversionWithInitiator(t *testing.T) {
	got, err := ParseConversion("as Alice 10 sp to gp")
	if err != nil {
		t.Fatalf("parse conversion: %v", err)
	}
	if got.InitiatorName != "Alice" {
		t.Fatalf("initiator = %q, want Alice", got.InitiatorName)
	}
	want := currency.Amounts{currency.Silver: -10, currency.Gold: 1}
	if got.Delta != want {
		t.Fatalf("delta = %v, want %v", got.Delta, want)
	}
}

func TestParseConversionErrors(t *testing.T) {
	tests := []struct {
		name     string
		operands string
		err      error
	}{
		{"non-integral target", "15 cp to sp", currency.ErrNotIntegral},
		{"missing to", "15 cp sp gp", ErrSyntax},
		{"non-numeric", "many cp to sp", ErrSyntax},
		{"unknown unit", "5 zp to sp", ErrSyntax},
		{"bare as", "as", ErrSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConversion(tt.operands); !errors.Is(err, tt.err) {
				t.Fatalf("parse conversion error = %v, want %v", err, tt.err)
			}
		})
	}
}
