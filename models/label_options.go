package models

// LabelOptions are the per-session toggles controlling which lines are
// rendered onto a branded image. Not persisted; recomputed per share
// session.
type LabelOptions struct {
	IncludeWholesale   bool `json:"includeWholesale"`
	IncludeRetail      bool `json:"includeRetail"`
	IncludeFabric      bool `json:"includeFabric"`
	IncludeDescription bool `json:"includeDescription"`
	IncludeFirmName    bool `json:"includeFirmName"`
}

// DefaultLabelOptions mirrors the initial dialog state: retail price and
// fabric on, everything else off.
func DefaultLabelOptions() LabelOptions {
	return LabelOptions{
		IncludeRetail: true,
		IncludeFabric: true,
	}
}
