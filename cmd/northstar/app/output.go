package app

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/northstarhq/northstar/pkg/okr"
)

var headingCaser = cases.Title(language.English)

// renderItem prints a single work item in the configured format.
func (a *App) renderItem(item okr.WorkItem) error {
	if a.config.Format != "text" {
		return a.renderStructured(item)
	}
	printItem(item)
	return nil
}

// renderArchived prints a completed item with its completion bookkeeping.
func (a *App) renderArchived(item okr.ArchivedItem) error {
	if a.config.Format != "text" {
		return a.renderStructured(item)
	}
	printItem(item.WorkItem)
	delta := "on time"
	switch {
	case item.ExpectedVsActualDays < 0:
		delta = color.GreenString("%d days early", -item.ExpectedVsActualDays)
	case item.ExpectedVsActualDays > 0:
		delta = color.RedString("%d days late", item.ExpectedVsActualDays)
	}
	fmt.Printf("  completed %s (%s)\n", item.CompletedAt.Format(okr.DateFormat), delta)
	return nil
}

// renderList prints active items grouped by category, followed by any
// archived items.
func (a *App) renderList(active []okr.WorkItem, archived []okr.ArchivedItem) error {
	if a.config.Format != "text" {
		out := map[string]any{"active": active}
		if archived != nil {
			out["archived"] = archived
		}
		return a.renderStructured(out)
	}

	byCategory := make(map[string][]okr.WorkItem)
	for _, item := range active {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}
	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		color.New(color.Bold).Println(headingCaser.String(category))
		for _, item := range byCategory[category] {
			printItem(item)
		}
		fmt.Println()
	}

	if len(archived) > 0 {
		color.New(color.Bold).Println("Archived")
		for _, item := range archived {
			printItem(item.WorkItem)
		}
	}

	if len(active) == 0 && len(archived) == 0 {
		fmt.Println("No work items. Add one with: northstar add <title>")
	}
	return nil
}

// renderQuestions prints clarifying questions.
func (a *App) renderQuestions(questions []okr.Question) error {
	if a.config.Format != "text" {
		return a.renderStructured(map[string]any{"questions": questions})
	}
	for _, q := range questions {
		fmt.Printf("%s %s\n", color.CyanString("[%s]", q.ID), q.Question)
	}
	return nil
}

// renderStructured emits JSON or YAML to stdout.
func (a *App) renderStructured(v any) error {
	switch a.config.Format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	default:
		return fmt.Errorf("unknown output format %q, expected text, json, or yaml", a.config.Format)
	}
}

func printItem(item okr.WorkItem) {
	fmt.Printf("%s %s  %s  %s\n", priorityColor(item.Priority).Sprintf("[%s]", item.Priority),
		color.New(color.Bold).Sprint(item.Title),
		item.Deadline,
		color.New(color.FgHiBlack).Sprint(item.ID))
	if item.Scope != "" {
		fmt.Printf("  %s\n", item.Scope)
	}
}

func priorityColor(p okr.Priority) *color.Color {
	switch p {
	case okr.PriorityP1:
		return color.New(color.FgRed, color.Bold)
	case okr.PriorityP2:
		return color.New(color.FgYellow)
	case okr.PriorityP3:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgHiBlack)
	}
}
