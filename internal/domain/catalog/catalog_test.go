package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0600)
}

func TestGet_Defaults(t *testing.T) {
	c := New()

	e, ok := c.Get("api_v1_facility_create")
	if !ok {
		t.Fatal("Get(api_v1_facility_create) not found in defaults")
	}
	if e.Title == "" || e.Description == "" {
		t.Errorf("default enhancement incomplete: %+v", e)
	}
	if len(e.Tags) == 0 {
		t.Error("default enhancement has no tags")
	}

	if _, ok := c.Get("api_v1_unknown_op"); ok {
		t.Error("Get returned an entry for an unknown operation")
	}
}

func TestHas(t *testing.T) {
	c := New()
	if !c.Has("api_v1_bed_create") {
		t.Error("Has(api_v1_bed_create) = false, want true")
	}
	if c.Has("nope") {
		t.Error("Has(nope) = true, want false")
	}
}

func TestNewWithEntries_ReplacesDefaults(t *testing.T) {
	c := NewWithEntries(map[string]Enhancement{
		"custom_op": {OperationID: "custom_op", Title: "Custom"},
	})

	if !c.Has("custom_op") {
		t.Error("custom entry missing")
	}
	// Supplying any custom table discards the defaults entirely.
	if c.Has("api_v1_facility_create") {
		t.Error("default entries survived a custom table")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	c := New()
	path := filepath.Join(t.TempDir(), "enhancements.yaml")

	if err := c.ExportFile(path); err != nil {
		t.Fatalf("ExportFile failed: %v", err)
	}

	imported, err := ImportFile(path)
	if err != nil {
		t.Fatalf("ImportFile failed: %v", err)
	}
	if imported.Len() != c.Len() {
		t.Fatalf("imported %d entries, want %d", imported.Len(), c.Len())
	}

	want, _ := c.Get("api_v1_organization_create")
	got, ok := imported.Get("api_v1_organization_create")
	if !ok {
		t.Fatal("imported catalog lost api_v1_organization_create")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("imported entry = %+v, want %+v", got, want)
	}
}

func TestImportFile_RejectsEntryWithoutID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := writeFile(path, "enhancements:\n  - title: No ID\n"); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportFile(path); err == nil {
		t.Error("ImportFile accepted an entry without operation_id")
	}
}
