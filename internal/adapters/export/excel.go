// Package export serializes a project aggregate into a multi-sheet
// xlsx workbook, one sheet per section.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/brdstudio/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	SheetOverview     = "Overview"
	SheetUI           = "UI Specifications"
	SheetAPI          = "API Specifications"
	SheetLLM          = "LLM Prompts"
	SheetSchema       = "Database Schema"
	SheetTechStack    = "Technology Stack"
	SheetTraceability = "Traceability Matrix"
)

type Exporter struct {
	dir string
}

func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// ExportProject writes the workbook for the given project and returns the
// path of the created file. The aggregate is validated first so a bad
// record aborts with the offending field named, and the workbook is
// written to a temporary file renamed into place only on full success.
func (e *Exporter) ExportProject(p domain.Project) (string, error) {
	if err := domain.ValidateProject(&p); err != nil {
		return "", fmt.Errorf("export aborted: %w", err)
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"1F77B4"}, Pattern: 1},
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Border: thinBorder(),
	})
	if err != nil {
		return "", err
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Border:    thinBorder(),
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return "", err
	}

	b := &workbook{f: f, headerStyle: headerStyle, cellStyle: cellStyle}
	if err := b.build(p); err != nil {
		return "", err
	}

	// The default sheet only goes once every real sheet exists.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", err
	}
	index, err := f.GetSheetIndex(SheetOverview)
	if err != nil {
		return "", err
	}
	f.SetActiveSheet(index)

	name := fmt.Sprintf("BRD_%s_%s.xlsx",
		strings.ReplaceAll(p.Name, " ", "_"),
		time.Now().Format("20060102_150405"))
	final := filepath.Join(e.dir, name)
	// SaveAs only accepts workbook extensions, so the temporary file has
	// to keep the .xlsx suffix.
	tmp := final + ".tmp.xlsx"

	if err := f.SaveAs(tmp); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return final, nil
}

type workbook struct {
	f           *excelize.File
	headerStyle int
	cellStyle   int
}

func (b *workbook) build(p domain.Project) error {
	if err := b.sheet(SheetOverview,
		[]string{"Project Name", "Description", "Business Goal", "Document Version", "Prepared By", "Approved By", "Target Release Date", "Created At", "Updated At"},
		[]float64{25, 50, 50, 16, 20, 20, 18, 20, 20},
		[][]any{{
			p.Name, p.Description, p.BusinessGoal, p.DocumentVersion,
			p.PreparedBy, p.ApprovedBy, p.TargetReleaseDate,
			formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
		}},
	); err != nil {
		return err
	}

	uiRows := make([][]any, 0, len(p.UIRequirements))
	for _, r := range p.UIRequirements {
		uiRows = append(uiRows, []any{
			r.RequirementID, r.FeatureModule, r.Screen, r.Description,
			r.ValidationRule, r.BusinessRule, r.MasterDetail, r.Priority,
		})
	}
	if err := b.sheet(SheetUI,
		[]string{"Requirement ID", "Feature/Module", "Screen/Component", "Description", "Validation Rule", "Business Rule", "Master/Detail", "Priority"},
		[]float64{15, 20, 20, 40, 30, 30, 13, 10},
		uiRows,
	); err != nil {
		return err
	}

	apiRows := make([][]any, 0, len(p.APISpecs))
	for _, r := range p.APISpecs {
		apiRows = append(apiRows, []any{
			r.APIID, r.Name, r.Method, r.Endpoint,
			r.RequestPayload, r.ResponsePayload, r.BusinessRule, r.APIType,
		})
	}
	if err := b.sheet(SheetAPI,
		[]string{"API ID", "API Name", "Method", "Endpoint", "Request Payload", "Response Payload", "Business Rule", "API Type"},
		[]float64{12, 20, 10, 25, 30, 30, 30, 15},
		apiRows,
	); err != nil {
		return err
	}

	llmRows := make([][]any, 0, len(p.LLMPrompts))
	for _, r := range p.LLMPrompts {
		llmRows = append(llmRows, []any{
			r.PromptID, r.UseCase, r.Template, r.InputVariables,
			r.ExpectedOutput, r.ModelName, temperatureCell(r.Temperature), r.Options,
		})
	}
	if err := b.sheet(SheetLLM,
		[]string{"Prompt ID", "Use Case", "Prompt Template", "Input Variables", "Expected Output", "Model", "Temperature", "Options"},
		[]float64{15, 20, 40, 20, 30, 15, 12, 20},
		llmRows,
	); err != nil {
		return err
	}

	schemaRows := make([][]any, 0, len(p.SchemaFields))
	for _, r := range p.SchemaFields {
		schemaRows = append(schemaRows, []any{
			r.TableName, r.FieldName, r.DataType,
			strings.Join(r.Constraints, ", "), r.Relationship, r.Description,
		})
	}
	if err := b.sheet(SheetSchema,
		[]string{"Table Name", "Field Name", "Data Type", "Constraints", "Relationship", "Description"},
		[]float64{20, 20, 15, 25, 15, 30},
		schemaRows,
	); err != nil {
		return err
	}

	techRows := make([][]any, 0, len(p.TechStack))
	for _, r := range p.TechStack {
		techRows = append(techRows, []any{
			r.Category, r.Technology, r.Version, r.Rationale, r.RepositoryURL,
		})
	}
	if err := b.sheet(SheetTechStack,
		[]string{"Category", "Technology/Tool", "Version", "Rationale", "Repository URL"},
		[]float64{20, 25, 12, 40, 30},
		techRows,
	); err != nil {
		return err
	}

	traceRows := make([][]any, 0, len(p.TraceabilityLinks))
	for _, r := range p.TraceabilityLinks {
		traceRows = append(traceRows, []any{
			r.RequirementID, r.BusinessRequirement,
			strings.Join(r.LinkedUIIDs, ", "),
			strings.Join(r.LinkedAPIIDs, ", "),
			strings.Join(r.LinkedLLMIDs, ", "),
			r.Status,
		})
	}
	return b.sheet(SheetTraceability,
		[]string{"Requirement ID", "Business Requirement", "Linked UI IDs", "Linked API IDs", "Linked LLM IDs", "Status"},
		[]float64{15, 40, 20, 20, 20, 15},
		traceRows,
	)
}

func (b *workbook) sheet(name string, headers []string, widths []float64, rows [][]any) error {
	if _, err := b.f.NewSheet(name); err != nil {
		return err
	}

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := b.f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := b.f.SetCellStyle(name, "A1", lastCol+"1", b.headerStyle); err != nil {
		return err
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := b.f.SetColWidth(name, col, col, width); err != nil {
			return err
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := b.f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
		if err := b.f.SetCellStyle(name, cell,
			fmt.Sprintf("%s%d", lastCol, i+2), b.cellStyle); err != nil {
			return err
		}
	}
	return nil
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Style: 1},
		{Type: "right", Style: 1},
		{Type: "top", Style: 1},
		{Type: "bottom", Style: 1},
	}
}

// temperatureCell renders the pointer; validation has filled it by the
// time a row is written, the empty cell is only for safety.
func temperatureCell(t *float64) any {
	if t == nil {
		return ""
	}
	return *t
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
