package filters

// Catalog lists the selectable values of each dimension.
type Catalog struct {
	Vendors []string `json:"vendors"`
	Types   []string `json:"types"`
}

// Option is one checkbox in a filter panel.
type Option struct {
	Value   string `json:"value"`
	Checked bool   `json:"checked"`
}

// Panel is the checkbox list of one dimension. All is checked when nothing
// is selected.
type Panel struct {
	Dimension Dimension `json:"dimension"`
	All       bool      `json:"all"`
	Options   []Option  `json:"options"`
}

// Panels renders the catalog against a state. Selected values missing from
// the catalog are still listed so the user can uncheck them.
func (c Catalog) Panels(s State) []Panel {
	return []Panel{
		panel(DimensionVendor, c.Vendors, s.Vendors),
		panel(DimensionType, c.Types, s.Types),
	}
}

func panel(d Dimension, known []string, selected Set) Panel {
	p := Panel{Dimension: d, All: selected.IsEmpty()}
	seen := make(map[string]bool, len(known))
	for _, v := range known {
		if seen[v] {
			continue
		}
		seen[v] = true
		p.Options = append(p.Options, Option{Value: v, Checked: selected.Contains(v)})
	}
	for _, v := range selected.values {
		if !seen[v] {
			p.Options = append(p.Options, Option{Value: v, Checked: true})
		}
	}
	return p
}
