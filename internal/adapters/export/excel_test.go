package export

import (
	"os"
	"strings"
	"testing"

	"github.com/atvirokodosprendimai/brdstudio/internal/domain"
	"github.com/xuri/excelize/v2"
)

func exportableProject() domain.Project {
	return domain.Project{
		ID:              "p1",
		Name:            "Customer Feedback Platform",
		Description:     "Collects and routes product feedback.",
		BusinessGoal:    "Cut triage time for incoming feedback in half.",
		DocumentVersion: "1.0",
		UIRequirements: []domain.UIRequirement{
			{RequirementID: "UI-001", FeatureModule: "Feedback Form", Screen: "Submission Form", Description: "Feedback entry form.", MasterDetail: "N/A", Priority: "Must"},
			{RequirementID: "UI-002", FeatureModule: "Feedback", Screen: "Feedback List", Description: "List of feedback.", MasterDetail: "N/A", Priority: "Should"},
		},
		APISpecs: []domain.APISpec{
			{APIID: "API-001", Name: "Submit Feedback", Method: "POST", Endpoint: "/api/v1/feedback", APIType: "Internal"},
		},
		TraceabilityLinks: []domain.TraceabilityLink{
			{RequirementID: "BR-001", BusinessRequirement: "Users can submit feedback", LinkedUIIDs: []string{"UI-001"}, LinkedAPIIDs: []string{"API-001"}, Status: "Planned"},
		},
	}
}

func TestExportProjectWritesAllSheets(t *testing.T) {
	dir := t.TempDir()
	exporter := NewExporter(dir)

	path, err := exporter.ExportProject(exportableProject())
	if err != nil {
		t.Fatalf("export project: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSuffix(path, ".xlsx"), dir+"/BRD_Customer_Feedback_Platform_") {
		t.Errorf("unexpected export path %q", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	want := []string{
		SheetOverview, SheetUI, SheetAPI, SheetLLM,
		SheetSchema, SheetTechStack, SheetTraceability,
	}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("expected %d sheets, got %v", len(want), got)
	}
	for _, name := range want {
		if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
			t.Errorf("missing sheet %q", name)
		}
	}

	assertRowCount(t, f, SheetOverview, 2)
	assertRowCount(t, f, SheetUI, 3)
	assertRowCount(t, f, SheetAPI, 2)
	assertRowCount(t, f, SheetLLM, 1)
	assertRowCount(t, f, SheetTraceability, 2)

	name, err := f.GetCellValue(SheetOverview, "A2")
	if err != nil {
		t.Fatalf("read overview cell: %v", err)
	}
	if name != "Customer Feedback Platform" {
		t.Errorf("unexpected overview project name %q", name)
	}

	priority, err := f.GetCellValue(SheetUI, "H2")
	if err != nil {
		t.Fatalf("read ui cell: %v", err)
	}
	if priority != "Must" {
		t.Errorf("unexpected ui priority %q", priority)
	}
}

func TestExportProjectLeavesOnlyFinalFile(t *testing.T) {
	dir := t.TempDir()
	exporter := NewExporter(dir)

	path, err := exporter.ExportProject(exportableProject())
	if err != nil {
		t.Fatalf("export project: %v", err)
	}
	if !strings.HasSuffix(path, ".xlsx") || strings.Contains(path, ".tmp") {
		t.Errorf("unexpected export path %q", path)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read export dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the renamed workbook, found %v", entries)
	}
	if got := entries[0].Name(); strings.Contains(got, ".tmp") {
		t.Errorf("temporary file left behind: %q", got)
	}
}

func TestExportProjectAbortsOnInvalidRecord(t *testing.T) {
	dir := t.TempDir()
	exporter := NewExporter(dir)

	p := exportableProject()
	p.UIRequirements[0].Priority = "Urgent"

	if _, err := exporter.ExportProject(p); err == nil {
		t.Fatal("expected export of invalid record to fail")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read export dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no partial files, found %v", entries)
	}
}

func assertRowCount(t *testing.T, f *excelize.File, sheet string, want int) {
	t.Helper()
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("read rows of %q: %v", sheet, err)
	}
	if len(rows) != want {
		t.Errorf("sheet %q: expected %d rows, got %d", sheet, want, len(rows))
	}
}
