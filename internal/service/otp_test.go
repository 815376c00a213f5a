package service

import "testing"

func TestGenerateCodePair(t *testing.T) {
	t.Parallel()

	for i := 0; i < 50; i++ {
		start, end, err := GenerateCodePair()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(start) != otpDigits || len(end) != otpDigits {
			t.Fatalf("expected %d-digit codes, got %q and %q", otpDigits, start, end)
		}
		if start == end {
			t.Fatalf("start and end codes must differ, both were %q", start)
		}
		for _, code := range []string{start, end} {
			for _, c := range code {
				if c < '0' || c > '9' {
					t.Fatalf("expected numeric code, got %q", code)
				}
			}
		}
	}
}

func TestConstantTimeVerifier(t *testing.T) {
	t.Parallel()

	var v ConstantTimeVerifier

	if !v.Verify("4821", "4821") {
		t.Error("expected matching codes to verify")
	}
	if v.Verify("4821", "4822") {
		t.Error("expected mismatched codes to fail")
	}
	if v.Verify("4821", "") {
		t.Error("expected empty supplied code to fail")
	}
	if v.Verify("", "") {
		t.Error("expected empty expected code to fail")
	}
	if v.Verify("", "4821") {
		t.Error("expected empty expected code to fail against any input")
	}
}
