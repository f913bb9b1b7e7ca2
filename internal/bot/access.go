package bot

// AccessFilter decides whether a message origin may reach the dispatcher.
// Both the guild and the channel must be on the configured allow-lists. An
// empty allow-list denies everything; there is no "allow all" mode.
type AccessFilter struct {
	guilds   map[string]struct{}
	channels map[string]struct{}
}

// NewAccessFilter creates an access filter from the configured allow-lists.
func NewAccessFilter(guildIDs, channelIDs []string) *AccessFilter {
	f := &AccessFilter{
		guilds:   make(map[string]struct{}, len(guildIDs)),
		channels: make(map[string]struct{}, len(channelIDs)),
	}
	for _, id := range guildIDs {
		f.guilds[id] = struct{}{}
	}
	for _, id := range channelIDs {
		f.channels[id] = struct{}{}
	}
	return f
}

// Allowed reports whether the origin guild and channel are both permitted.
func (f *AccessFilter) Allowed(originID, channelID string) bool {
	if len(f.guilds) == 0 || len(f.channels) == 0 {
		return false
	}
	if _, ok := f.guilds[originID]; !ok {
		return false
	}
	_, ok := f.channels[channelID]
	return ok
}
