package pricing

// Rates are USD per million tokens for one model.
type Rates struct {
	InputPerMillion       float64 `yaml:"input_per_million"`
	CachedInputPerMillion float64 `yaml:"cached_input_per_million"`
	OutputPerMillion      float64 `yaml:"output_per_million"`
}

// Table maps model ids to rates. Unknown ids fall back to the default
// model's rates; that fallback is intentional so an experimental model can
// be invoked before anyone remembers to price it.
type Table struct {
	rates map[string]Rates
	def   string
}

// NewTable builds a table. defaultID must be present in rates; when it is
// not, the zero Rates value is used as the fallback.
func NewTable(rates map[string]Rates, defaultID string) *Table {
	cp := make(map[string]Rates, len(rates))
	for k, v := range rates {
		cp[k] = v
	}
	return &Table{rates: cp, def: defaultID}
}

// DefaultTable returns the built-in price list.
func DefaultTable() *Table {
	return NewTable(map[string]Rates{
		"gpt-4o-mini":  {InputPerMillion: 0.15, CachedInputPerMillion: 0.075, OutputPerMillion: 0.60},
		"gpt-4o":       {InputPerMillion: 2.50, CachedInputPerMillion: 1.25, OutputPerMillion: 10.00},
		"gpt-4.1-mini": {InputPerMillion: 0.40, CachedInputPerMillion: 0.10, OutputPerMillion: 1.60},
		"gpt-5-mini":   {InputPerMillion: 0.25, CachedInputPerMillion: 0.025, OutputPerMillion: 2.00},
		"o3-mini":      {InputPerMillion: 1.10, CachedInputPerMillion: 0.55, OutputPerMillion: 4.40},
	}, "gpt-4o-mini")
}

// Lookup returns the rates for model and the id they were priced under
// (the default id when model is unknown).
func (t *Table) Lookup(model string) (Rates, string) {
	if r, ok := t.rates[model]; ok {
		return r, model
	}
	return t.rates[t.def], t.def
}

// Merge overlays override rates onto the table, adding or replacing entries.
func (t *Table) Merge(overrides map[string]Rates) {
	for k, v := range overrides {
		t.rates[k] = v
	}
}
