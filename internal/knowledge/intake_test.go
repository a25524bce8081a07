package knowledge

import (
	"errors"
	"testing"
)

func TestAcceptsByExtensionOnly(t *testing.T) {
	cases := []struct {
		name string
		ok   bool
	}{
		{"propiedades.xlsx", true},
		{"legacy.xls", true},
		{"export.json", true},
		{"EXPORT.JSON", true},
		{"notes.txt", false},
		{"photo.png", false},
		{"archive.xlsx.zip", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := Accepts(tc.name); got != tc.ok {
			t.Errorf("Accepts(%q) = %v, want %v", tc.name, got, tc.ok)
		}
	}
}

func TestAddRejectsUnsupported(t *testing.T) {
	intake := NewIntake(nil)

	if _, err := intake.Add("malware.exe", 10); !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("err = %v, want ErrUnsupportedFile", err)
	}
	if got := intake.List(); len(got) != 0 {
		t.Fatalf("rejected file landed in inventory: %v", got)
	}
}

func TestIntakeLifecycle(t *testing.T) {
	intake := NewIntake(nil)

	f, err := intake.Add("propiedades.xlsx", 2048)
	if err != nil {
		t.Fatal(err)
	}
	if f.ID == "" || f.Status != StatusProcessing || f.AddedAt.IsZero() {
		t.Fatalf("entry = %+v", f)
	}

	if err := intake.Ingest(f.ID); err != nil {
		t.Fatal(err)
	}
	got, err := intake.Get(f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusProcessed {
		t.Fatalf("status = %q after ingest", got.Status)
	}

	if err := intake.Remove(f.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := intake.Get(f.ID); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("err after remove = %v", err)
	}
}

func TestListKeepsInsertionOrder(t *testing.T) {
	intake := NewIntake(nil)

	names := []string{"a.json", "b.xlsx", "c.xls"}
	for _, n := range names {
		if _, err := intake.Add(n, 1); err != nil {
			t.Fatal(err)
		}
	}

	list := intake.List()
	if len(list) != len(names) {
		t.Fatalf("inventory size = %d", len(list))
	}
	for i, n := range names {
		if list[i].Name != n {
			t.Fatalf("list[%d] = %q, want %q", i, list[i].Name, n)
		}
	}
}

func TestIngestUnknownID(t *testing.T) {
	intake := NewIntake(nil)
	if err := intake.Ingest("missing"); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("err = %v", err)
	}
	if err := intake.Remove("missing"); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("remove err = %v", err)
	}
}
