package renderer

import (
	tracker "github.com/rohanveit/monzo-tracker"
)

// OverviewView is the flattened, display-ready form of a yearly overview sheet.
type OverviewView struct {
	Title          string
	Header         []string
	Sections       []OverviewSectionView
	NetChange      OverviewRowView
	RunningBalance OverviewRowView
}

// OverviewSectionView holds one spending direction of the overview table.
type OverviewSectionView struct {
	Name  string
	Rows  []OverviewRowView
	Total OverviewRowView
}

// OverviewRowView is a single overview line: a label and one cell per month
// plus the Total column. Projected cells are wrapped in emphasis markers so
// they read differently from realized figures.
type OverviewRowView struct {
	Label string
	Cells []string
}

func newOverviewView(s *tracker.Sheet) *OverviewView {
	v := &OverviewView{Title: s.Name}
	var section *OverviewSectionView

	for _, row := range s.Rows {
		switch row.Kind {
		case tracker.KindColumnHeader:
			for _, c := range row.Cells[1:] {
				v.Header = append(v.Header, c.Text)
			}
		case tracker.KindSectionHeader:
			if section != nil {
				v.Sections = append(v.Sections, *section)
			}
			section = &OverviewSectionView{Name: row.Label()}
		case tracker.KindCategorySubtotal:
			if section != nil {
				section.Rows = append(section.Rows, newOverviewRow(row))
			}
		case tracker.KindSectionTotal:
			if section != nil {
				section.Total = newOverviewRow(row)
			}
		case tracker.KindNetChange:
			v.NetChange = newOverviewRow(row)
		case tracker.KindRunningBalance:
			v.RunningBalance = newOverviewRow(row)
		}
	}
	if section != nil {
		v.Sections = append(v.Sections, *section)
	}
	return v
}

func newOverviewRow(row tracker.Row) OverviewRowView {
	v := OverviewRowView{Label: row.Label()}
	for _, c := range row.Cells[1:] {
		switch {
		case !c.HasValue:
			v.Cells = append(v.Cells, "")
		case c.Formula != "":
			v.Cells = append(v.Cells, "_"+c.Value.StringFixed(2)+"_")
		default:
			v.Cells = append(v.Cells, c.Value.StringFixed(2))
		}
	}
	return v
}
