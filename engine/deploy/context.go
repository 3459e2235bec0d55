package deploy

// BusinessIdentity is the client-facing identity substituted into the
// deployed configuration.
type BusinessIdentity struct {
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	Phone    string `json:"phone"`
	Currency string `json:"currency"`
}

// TeamMember is one roster slot. Slot order is significant: dynamic
// tokens in label names resolve by position.
type TeamMember struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

// RuntimeContext carries the deployment-time facts that cannot be derived
// from schema fragments: business identity, the team roster, and the
// label-name to external-folder-identifier map minted by the provisioning
// step. It is supplied once per deployment request and never cached.
type RuntimeContext struct {
	Business BusinessIdentity `json:"business"`
	Roster   []TeamMember     `json:"roster"`
	// FolderIDs keys are either a bare top-level label name or a
	// "/"-joined fully-qualified path. Unknown keys are ignored.
	FolderIDs map[string]string `json:"folder_ids"`
}

// FolderID resolves a label name or "/"-joined path to its external
// identifier, or "" when the provisioning step supplied none. Identifiers
// are never inherited from a parent label.
func (rc *RuntimeContext) FolderID(path string) string {
	if rc == nil || rc.FolderIDs == nil {
		return ""
	}
	return rc.FolderIDs[path]
}

// MemberName returns the display name for a 1-based roster slot, or ""
// when the roster has no entry for it.
func (rc *RuntimeContext) MemberName(slot int) string {
	if rc == nil || slot < 1 || slot > len(rc.Roster) {
		return ""
	}
	return rc.Roster[slot-1].Name
}
