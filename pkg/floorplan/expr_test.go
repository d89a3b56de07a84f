package floorplan

import (
	"encoding/json"
	"testing"

	errs "github.com/matzehuels/floorplan/pkg/errors"
)

func TestParseExpression(t *testing.T) {
	e := ParseExpression("  A B V\tC  H ")
	want := Expression{"A", "B", Vertical, "C", Horizontal}
	if !e.Equal(want) {
		t.Fatalf("ParseExpression() = %v, want %v", e, want)
	}
	if got := e.String(); got != "A B V C H" {
		t.Errorf("String() = %q, want %q", got, "A B V C H")
	}
}

func TestChain(t *testing.T) {
	tests := []struct {
		names []string
		want  string
	}{
		{nil, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "a b V"},
		{[]string{"a", "b", "c", "d"}, "a b V c V d V"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			e := Chain(tt.names)
			if got := e.String(); got != tt.want {
				t.Errorf("Chain(%v) = %q, want %q", tt.names, got, tt.want)
			}
			if len(tt.names) > 0 {
				if err := Validate(e); err != nil {
					t.Errorf("Chain(%v) is not valid: %v", tt.names, err)
				}
			}
		})
	}
}

func TestTokenComplement(t *testing.T) {
	if Horizontal.Complement() != Vertical || Vertical.Complement() != Horizontal {
		t.Error("Complement should swap H and V")
	}
	if Token("alu").Complement() != "alu" {
		t.Error("Complement should leave operands alone")
	}
}

func TestCheckBallotingProperty(t *testing.T) {
	tests := []struct {
		expr string
		want bool
	}{
		{"A", true},
		{"A B V", true},
		{"A B V C H", true},
		{"A B C V H", true},
		{"A V B", false},
		{"V A B", false},
		{"A B V H C", false},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := CheckBallotingProperty(ParseExpression(tt.expr)); got != tt.want {
				t.Errorf("CheckBallotingProperty(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestIsSkewed(t *testing.T) {
	tests := []struct {
		expr string
		want bool
	}{
		{"A B V", true},
		{"A B C V H", true},
		{"A B C V V", false},
		{"A B C H H", false},
		{"A B V C V", true},
		{"A B V C D V V", false},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := IsSkewed(ParseExpression(tt.expr)); got != tt.want {
				t.Errorf("IsSkewed(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr bool
	}{
		{"single operand", "A", false},
		{"chain", "A B V C V", false},
		{"mixed", "A B H C D V H", false},
		{"empty", "", true},
		{"unbalanced", "A B C V", true},
		{"too many operators", "A B V H", true},
		{"balloting", "A V B", true},
		{"not skewed", "A B C V V", true},
		{"duplicate operand", "A A V", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(ParseExpression(tt.expr))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
			}
			if err != nil && !errs.Is(err, errs.ErrCodeInvalidExpression) {
				t.Errorf("Validate(%q) code = %v, want %v", tt.expr, errs.GetCode(err), errs.ErrCodeInvalidExpression)
			}
		})
	}
}

func TestExpressionJSON(t *testing.T) {
	type doc struct {
		Best Expression `json:"best"`
	}
	data, err := json.Marshal(doc{Best: ParseExpression("A B V C H")})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"best":"A B V C H"}` {
		t.Errorf("Marshal = %s", data)
	}

	var back doc
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Best.String() != "A B V C H" {
		t.Errorf("Unmarshal = %q", back.Best)
	}
}

func TestOperands(t *testing.T) {
	got := ParseExpression("A B V C H").Operands()
	if len(got) != 3 || got[0] != "A" || got[1] != "B" || got[2] != "C" {
		t.Errorf("Operands() = %v", got)
	}
}
