package domain

import "time"

// Profile is a named bundle of enabled hooks plus a time budget, used to
// trade thoroughness for speed. Profiles are owned by the profile
// manager and read-only after load.
type Profile struct {
	// Name is the profile identifier (minimal, standard, advanced, or a
	// custom name).
	Name string `json:"name"`

	// Budget is the aggregate wall-time ceiling for one dispatch.
	Budget time.Duration `json:"budget"`

	// Categories lists the included hook categories. Ignored when
	// AllowList is set.
	Categories []Category `json:"categories,omitempty"`

	// AllowList is an explicit hook allow-list for custom profiles. It
	// may re-include hooks excluded by default.
	AllowList []string `json:"allow_list,omitempty"`
}

// Includes reports whether the profile selects the given definition.
// Custom profiles match on the allow-list; built-in profiles match on
// category.
func (p Profile) Includes(def HookDefinition) bool {
	if len(p.AllowList) > 0 {
		for _, id := range p.AllowList {
			if id == def.ID {
				return true
			}
		}
		return false
	}
	for _, c := range p.Categories {
		if c == def.Category {
			return true
		}
	}
	return false
}
