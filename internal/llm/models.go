package llm

// UsageStyle tags which field-naming convention a model's API reports
// token usage in.
type UsageStyle string

const (
	// UsagePromptCompletion reports prompt_tokens / completion_tokens.
	UsagePromptCompletion UsageStyle = "prompt_completion"
	// UsageInputOutput reports input_tokens / output_tokens.
	UsageInputOutput UsageStyle = "input_output"
)

// ModelProfile is the capability record for one model variant. Behavioral
// differences between variants live here, not in per-model code paths.
type ModelProfile struct {
	ID                  string     `yaml:"id"`
	SupportsTemperature bool       `yaml:"supports_temperature"`
	UsageStyle          UsageStyle `yaml:"usage_style"`
}

// DefaultModelID is used whenever a request does not name a model.
const DefaultModelID = "gpt-4o-mini"

// Registry resolves model ids to profiles. Unknown ids resolve to an
// ad-hoc profile with conservative capabilities so the pipeline never
// refuses a model the remote API might still accept.
type Registry struct {
	order    []string
	profiles map[string]ModelProfile
	def      string
}

// NewRegistry builds a registry from an ordered profile list. The first
// profile whose ID equals defaultID becomes the default; an empty or
// unknown defaultID falls back to the first entry.
func NewRegistry(profiles []ModelProfile, defaultID string) *Registry {
	r := &Registry{profiles: make(map[string]ModelProfile, len(profiles))}
	for _, p := range profiles {
		if _, dup := r.profiles[p.ID]; dup {
			continue
		}
		r.profiles[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	if _, ok := r.profiles[defaultID]; ok {
		r.def = defaultID
	} else if len(r.order) > 0 {
		r.def = r.order[0]
	}
	return r
}

// DefaultRegistry returns the built-in model table.
func DefaultRegistry() *Registry {
	return NewRegistry([]ModelProfile{
		{ID: "gpt-4o-mini", SupportsTemperature: true, UsageStyle: UsagePromptCompletion},
		{ID: "gpt-4o", SupportsTemperature: true, UsageStyle: UsagePromptCompletion},
		{ID: "gpt-4.1-mini", SupportsTemperature: true, UsageStyle: UsagePromptCompletion},
		{ID: "gpt-5-mini", SupportsTemperature: false, UsageStyle: UsageInputOutput},
		{ID: "o3-mini", SupportsTemperature: false, UsageStyle: UsageInputOutput},
	}, DefaultModelID)
}

// Default returns the default model's profile.
func (r *Registry) Default() ModelProfile {
	return r.profiles[r.def]
}

// WithDefault re-points the default model. An id the registry does not
// know is added with conservative capabilities, so a configured default
// is never silently ignored.
func (r *Registry) WithDefault(id string) *Registry {
	if id == "" {
		return r
	}
	if _, ok := r.profiles[id]; !ok {
		r.profiles[id] = ModelProfile{ID: id, SupportsTemperature: false, UsageStyle: UsagePromptCompletion}
		r.order = append(r.order, id)
	}
	r.def = id
	return r
}

// Lookup returns the profile for id and whether it is registered.
func (r *Registry) Lookup(id string) (ModelProfile, bool) {
	p, ok := r.profiles[id]
	return p, ok
}

// Resolve returns the registered profile for id, the default profile for an
// empty id, and a conservative ad-hoc profile for an unknown id.
func (r *Registry) Resolve(id string) ModelProfile {
	if id == "" {
		return r.Default()
	}
	if p, ok := r.profiles[id]; ok {
		return p
	}
	return ModelProfile{ID: id, SupportsTemperature: false, UsageStyle: UsagePromptCompletion}
}

// IDs returns the registered model ids in registration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
