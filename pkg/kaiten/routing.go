// Package kaiten files task records as cards on Kaiten kanban boards.
package kaiten

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"taskdesk/pkg/task"
)

// Target identifies where a card lands in Kaiten.
type Target struct {
	BoardID  int64 `yaml:"board_id" json:"board_id"`
	ColumnID int64 `yaml:"column_id" json:"column_id"`
	LaneID   int64 `yaml:"lane_id" json:"lane_id"`
}

// Table maps routing categories to board targets. It is immutable
// configuration; Resolve never fails and never returns an empty target.
type Table struct {
	targets map[task.Category]Target
}

// DefaultTable returns the built-in category routing.
func DefaultTable() *Table {
	return &Table{targets: map[task.Category]Target{
		task.CategoryThisMonth:     {BoardID: 300338, ColumnID: 1017212, LaneID: 415476},
		task.CategoryToday:         {BoardID: 300338, ColumnID: 1017213, LaneID: 415476},
		task.CategoryScheduled:     {BoardID: 301949, ColumnID: 1022208, LaneID: 417486},
		task.CategoryDelegatedToMe: {BoardID: 300339, ColumnID: 1017215, LaneID: 415477},
		task.CategoryDelegatedOut:  {BoardID: 300339, ColumnID: 1017216, LaneID: 415477},
	}}
}

// LoadTable reads a YAML routing override keyed by category name and merges
// it over the built-in defaults. Unknown category names are rejected so a
// typo cannot silently route cards to the fallback.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read routing file %s: %w", path, err)
	}

	var raw map[string]Target
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse routing file %s: %w", path, err)
	}

	table := DefaultTable()
	for name, target := range raw {
		cat := task.Category(name)
		if !cat.Valid() {
			return nil, fmt.Errorf("routing file %s: unknown category %q", path, name)
		}
		if target.BoardID == 0 || target.ColumnID == 0 || target.LaneID == 0 {
			return nil, fmt.Errorf("routing file %s: incomplete target for %q", path, name)
		}
		table.targets[cat] = target
	}
	return table, nil
}

// Resolve returns the target for the category, defensively falling back to
// the fallback category's target for anything unrecognized.
func (t *Table) Resolve(cat task.Category) Target {
	if target, ok := t.targets[cat]; ok {
		return target
	}
	return t.targets[task.CategoryFallback]
}
