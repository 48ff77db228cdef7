package application

import (
	"fmt"
	"strings"

	"github.com/libreshift/libreshift/internal/domain/model"
)

// ReportFileName is the generated migration report added to the published
// tree whenever at least one rule fired.
const ReportFileName = "LIBERATION.md"

// BuildReport renders the change list as a markdown migration report grouped
// by service, config files first within each group. The same text is stored
// on the job record and served rendered over the API.
func BuildReport(projectName string, changes []model.CleaningChange, excluded []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Liberation report: %s\n\n", projectName)

	if len(changes) == 0 {
		b.WriteString("No proprietary service usage was detected. The project was republished unchanged.\n")
	} else {
		fmt.Fprintf(&b, "%d proprietary service usages were replaced with self-hostable equivalents.\n\n", len(changes))

		for _, group := range groupByRule(changes) {
			fmt.Fprintf(&b, "## %s → %s\n\n", group.service, group.replacement)
			fmt.Fprintf(&b, "%s\n\n", group.note)
			for _, c := range group.changes {
				fmt.Fprintf(&b, "- `%s:%d` — `%s`\n", c.FilePath, c.Line, c.OriginalExcerpt)
			}
			b.WriteString("\n")
		}
	}

	if len(excluded) > 0 {
		b.WriteString("## Files not republished\n\n")
		b.WriteString("Lock files and binaries are excluded; regenerate lock files from the updated manifests.\n\n")
		for _, p := range excluded {
			fmt.Fprintf(&b, "- `%s`\n", p)
		}
	}

	return b.String()
}

type ruleGroup struct {
	service     string
	replacement string
	note        string
	changes     []model.CleaningChange
}

// groupByRule buckets changes per rule, preserving first-seen rule order and,
// within a rule, floating config-file changes ahead of source changes.
func groupByRule(changes []model.CleaningChange) []ruleGroup {
	index := make(map[string]int)
	var groups []ruleGroup

	for _, c := range changes {
		i, ok := index[c.RuleID]
		if !ok {
			i = len(groups)
			index[c.RuleID] = i
			groups = append(groups, ruleGroup{
				service:     c.ServiceName,
				replacement: replacementFor(c.RuleID),
				note:        c.Note,
			})
		}
		groups[i].changes = append(groups[i].changes, c)
	}

	for i := range groups {
		groups[i].changes = stablePartitionConfigFirst(groups[i].changes)
	}

	return groups
}

// replacementFor looks the replacement name up from the catalog so the report
// headings stay in sync with the rule table.
func replacementFor(ruleID string) string {
	for _, rule := range defaultCatalog {
		if rule.ID == ruleID {
			return rule.Replacement
		}
	}
	return "open-source equivalent"
}

func stablePartitionConfigFirst(changes []model.CleaningChange) []model.CleaningChange {
	out := make([]model.CleaningChange, 0, len(changes))
	for _, c := range changes {
		if Classify(c.FilePath, "") == model.FileClassConfig {
			out = append(out, c)
		}
	}
	for _, c := range changes {
		if Classify(c.FilePath, "") != model.FileClassConfig {
			out = append(out, c)
		}
	}
	return out
}
