package prompt

import (
	"strings"
	"testing"
)

func TestParseHint(t *testing.T) {
	tests := []struct {
		input string
		want  Hint
		known bool
	}{
		{"", HintNone, true},
		{"  ", HintNone, true},
		{"식물", HintPlant, true},
		{"Plant", HintPlant, true},
		{"곤충", HintInsect, true},
		{"insect", HintInsect, true},
		{"새", HintBird, true},
		{"BIRD", HintBird, true},
		{"기타", HintOther, true},
		{"other", HintOther, true},
		{"fungus", HintNone, false},
	}

	for _, tt := range tests {
		got, known := ParseHint(tt.input)
		if got != tt.want || known != tt.known {
			t.Errorf("ParseHint(%q) = (%q, %v), expected (%q, %v)", tt.input, got, known, tt.want, tt.known)
		}
	}
}

func TestBuild_EmbedsInformativeHint(t *testing.T) {
	p := Build(HintInsect)
	if !strings.Contains(p.User, "Hint category: 곤충") {
		t.Errorf("Expected user text to embed hint, got %q", p.User)
	}
}

func TestBuild_OmitsUninformativeHint(t *testing.T) {
	for _, h := range []Hint{HintNone, HintOther} {
		p := Build(h)
		if strings.Contains(p.User, "Hint category") {
			t.Errorf("Expected no hint line for %q, got %q", h, p.User)
		}
		if p.User != "Analyze this organism in the image." {
			t.Errorf("Unexpected user text %q", p.User)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	a := Build(HintPlant)
	b := Build(HintPlant)
	if a != b {
		t.Error("Expected identical prompts for identical hints")
	}
}

func TestSystemInstruction_DescribesEveryField(t *testing.T) {
	system := Build(HintNone).System
	if system != SystemInstruction() {
		t.Error("Expected Build to use the fixed system instruction")
	}
	for _, field := range []string{"top1", "name_ko", "name_en", "confidence", "rationale_points", "warnings"} {
		if !strings.Contains(system, `"`+field+`"`) {
			t.Errorf("Expected system instruction to describe field %q", field)
		}
	}
	if !strings.Contains(system, "higher-level taxonomic group") {
		t.Error("Expected uncertainty rule in system instruction")
	}
}
