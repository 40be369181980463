package imgix

// Profile describes what the signing service accepts.
type Profile struct {
	Version    string               `json:"version"`
	Signed     bool                 `json:"signed"`
	Parameters map[string]Parameter `json:"parameters"`
	Conflicts  []Conflict           `json:"conflicts"`
	Reserved   []string             `json:"reserved"`
	Presets    []string             `json:"presets,omitempty"`
}
