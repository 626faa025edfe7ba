package documents

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusDraft, StatusSent},
		{StatusDraft, StatusArchived},
		{StatusSent, StatusSigned},
		{StatusSent, StatusArchived},
		{StatusSigned, StatusArchived},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to Status }{
		{StatusDraft, StatusSigned},
		{StatusSent, StatusDraft},
		{StatusSigned, StatusSent},
		{StatusSigned, StatusDraft},
		{StatusArchived, StatusDraft},
		{StatusArchived, StatusSent},
		{StatusArchived, StatusSigned},
		{StatusDraft, StatusDraft},
	}
	for _, tc := range denied {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}
}

func TestValidType(t *testing.T) {
	for _, typ := range []string{TypeOfferLetter, TypeSalaryLetter, TypeOnboardingLetter, TypeNDA, TypeOther} {
		if !ValidType(typ) {
			t.Errorf("expected %q to be valid", typ)
		}
	}
	if ValidType("Resume") {
		t.Error("expected unknown type to be invalid")
	}
}
