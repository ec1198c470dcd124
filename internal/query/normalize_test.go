package query

import "testing"

func TestNormalize_FullWidthSpace(t *testing.T) {
	got := Normalize("研究　開発")
	want := "研究 開発"
	if got != want {
		t.Errorf("full-width space: got %q, want %q", got, want)
	}
}

func TestNormalize_CollapsesWhitespace(t *testing.T) {
	got := Normalize("  研究 　  開発\t株式会社  ")
	want := "研究 開発 株式会社"
	if got != want {
		t.Errorf("collapse: got %q, want %q", got, want)
	}
}

func TestNormalize_LowercasesASCII(t *testing.T) {
	got := Normalize("Tokyo DX Cloud")
	want := "tokyo dx cloud"
	if got != want {
		t.Errorf("lowercase: got %q, want %q", got, want)
	}
}

func TestNormalize_EmptyAndBlank(t *testing.T) {
	for _, in := range []string{"", "   ", "　　", " \t "} {
		if got := Normalize(in); got != "" {
			t.Errorf("Normalize(%q) = %q, want empty", in, got)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"　　",
		"研究　開発",
		"  研究 　  開発\t株式会社  ",
		"Tokyo DX Cloud",
		"ＡＢＣ 緑川電機　Ｌａｂ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize(%q) is not a fixed point: %q -> %q", in, once, twice)
		}
	}
}

func TestNormalize_EquivalentQueriesShareForm(t *testing.T) {
	a := Normalize("研究　開発")
	b := Normalize(" 研究 開発 ")
	if a != b {
		t.Errorf("equivalent queries normalize differently: %q vs %q", a, b)
	}
}
