package validate

import "testing"

func TestPhone(t *testing.T) {
	t.Parallel()

	valid := []string{"9876543210", "6000000000", " 7123456789 "}
	for _, v := range valid {
		if err := Phone("phone", v); err != nil {
			t.Fatalf("Phone(%q) = %v, want nil", v, err)
		}
	}

	invalid := []string{"", "12345", "5876543210", "98765432101", "98765abcde"}
	for _, v := range invalid {
		if err := Phone("phone", v); err == nil {
			t.Fatalf("Phone(%q) = nil, want error", v)
		}
	}

	if err := OptionalPhone("phone", ""); err != nil {
		t.Fatalf("OptionalPhone empty = %v, want nil", err)
	}
}

func TestEmail(t *testing.T) {
	t.Parallel()

	valid := []string{"a.b@gmail.com", "shop_1+x@yahoo.com"}
	for _, v := range valid {
		if err := Email("email", v); err != nil {
			t.Fatalf("Email(%q) = %v, want nil", v, err)
		}
	}

	invalid := []string{"", "a@outlook.com", "a@gmail", "gmail.com"}
	for _, v := range invalid {
		if err := Email("email", v); err == nil {
			t.Fatalf("Email(%q) = nil, want error", v)
		}
	}

	if err := OptionalEmail("email", " "); err != nil {
		t.Fatalf("OptionalEmail blank = %v, want nil", err)
	}
}

func TestPersonName(t *testing.T) {
	t.Parallel()

	if err := PersonName("name", "Asha Rao"); err != nil {
		t.Fatalf("PersonName = %v, want nil", err)
	}
	for _, v := range []string{"", "R2D2", "a-b"} {
		if err := PersonName("name", v); err == nil {
			t.Fatalf("PersonName(%q) = nil, want error", v)
		}
	}
}
