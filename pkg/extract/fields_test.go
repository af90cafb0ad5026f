package extract

import "testing"

func TestDetectCurrencySymbolBeforeCode(t *testing.T) {
	// The € symbol wins even though USD also appears as a literal code.
	if cur := DetectCurrency("Total € 45,90 (approx USD 50)"); cur != "EUR" {
		t.Fatalf("expected EUR got %q", cur)
	}
}

func TestDetectCurrencyCodeFallback(t *testing.T) {
	if cur := DetectCurrency("Amount 120.00 TRY"); cur != "TRY" {
		t.Fatalf("expected TRY got %q", cur)
	}
	if cur := DetectCurrency("no currency at all"); cur != "" {
		t.Fatalf("expected empty got %q", cur)
	}
}

func TestPickVendorCompanySuffix(t *testing.T) {
	text := "Invoice #42\nAcme Trading GmbH\nBerlin"
	if v := PickVendor(text); v != "Acme Trading GmbH" {
		t.Fatalf("expected suffix line got %q", v)
	}
}

func TestPickVendorFirstLineFallback(t *testing.T) {
	text := "\n  Corner Bakery  \nReceipt 2024"
	if v := PickVendor(text); v != "Corner Bakery" {
		t.Fatalf("expected first non-blank line got %q", v)
	}
	if v := PickVendor("\n \n"); v != "" {
		t.Fatalf("expected empty for blank document got %q", v)
	}
}

func TestFindDateLiteral(t *testing.T) {
	if d := FindDate("Date: 01.08.2025 Due: 15.08.2025"); d != "01.08.2025" {
		t.Fatalf("expected first literal got %q", d)
	}
	if d := FindDate("issued 2024-12-05"); d != "2024-12-05" {
		t.Fatalf("expected ISO-like literal got %q", d)
	}
	if d := FindDate("no dates"); d != "" {
		t.Fatalf("expected empty got %q", d)
	}
}

func TestClassifyDocTypePriority(t *testing.T) {
	// "monthly" and "service" both present: recurring is checked first.
	if dt := ClassifyDocType("Monthly service subscription"); dt != "recurring" {
		t.Fatalf("expected recurring got %q", dt)
	}
	if dt := ClassifyDocType("Consulting fees for March"); dt != "service" {
		t.Fatalf("expected service got %q", dt)
	}
	if dt := ClassifyDocType("2x item, unit price 5.00"); dt != "product" {
		t.Fatalf("expected product got %q", dt)
	}
	if dt := ClassifyDocType("miscellaneous"); dt != "other" {
		t.Fatalf("expected other got %q", dt)
	}
}
