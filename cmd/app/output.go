package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/atvirokodosprendimai/brdstudio/internal/domain"
)

func printJSON(v any) error {
	b, err := jsonMarshal(v)
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printKV(rows [][2]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()
}

func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println("no results")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func printProjectSummaries(items []domain.ProjectSummary) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.ID,
			item.Name,
			formatTime(item.UpdatedAt),
		})
	}
	printTable([]string{"ID", "NAME", "UPDATED_AT"}, rows)
}

func printProject(p domain.Project) {
	printKV([][2]string{
		{"id", p.ID},
		{"name", p.Name},
		{"description", p.Description},
		{"business_goal", p.BusinessGoal},
		{"version", p.DocumentVersion},
		{"prepared_by", p.PreparedBy},
		{"approved_by", p.ApprovedBy},
		{"target_release", p.TargetReleaseDate},
		{"ui_requirements", strconv.Itoa(len(p.UIRequirements))},
		{"api_specs", strconv.Itoa(len(p.APISpecs))},
		{"llm_prompts", strconv.Itoa(len(p.LLMPrompts))},
		{"schema_fields", strconv.Itoa(len(p.SchemaFields))},
		{"tech_stack", strconv.Itoa(len(p.TechStack))},
		{"traceability_links", strconv.Itoa(len(p.TraceabilityLinks))},
		{"updated_at", formatTime(p.UpdatedAt)},
	})

	if len(p.UIRequirements) > 0 {
		fmt.Println()
		rows := make([][]string, 0, len(p.UIRequirements))
		for _, r := range p.UIRequirements {
			rows = append(rows, []string{r.RequirementID, r.Screen, r.Priority, r.MasterDetail})
		}
		printTable([]string{"REQ_ID", "SCREEN", "PRIORITY", "MASTER_DETAIL"}, rows)
	}
	if len(p.APISpecs) > 0 {
		fmt.Println()
		rows := make([][]string, 0, len(p.APISpecs))
		for _, r := range p.APISpecs {
			rows = append(rows, []string{r.APIID, r.Method, r.Endpoint, r.APIType})
		}
		printTable([]string{"API_ID", "METHOD", "ENDPOINT", "TYPE"}, rows)
	}
	if len(p.TraceabilityLinks) > 0 {
		fmt.Println()
		rows := make([][]string, 0, len(p.TraceabilityLinks))
		for _, r := range p.TraceabilityLinks {
			rows = append(rows, []string{
				r.RequirementID,
				strings.Join(r.LinkedUIIDs, ","),
				strings.Join(r.LinkedAPIIDs, ","),
				r.Status,
			})
		}
		printTable([]string{"REQ_ID", "UI_IDS", "API_IDS", "STATUS"}, rows)
	}
}
