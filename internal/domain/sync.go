package domain

// SyncStatus describes whether a locally held value matches its durable copy.
type SyncStatus string

const (
	// SyncLocal means the value has not been loaded from or pushed to storage yet.
	SyncLocal SyncStatus = "local"
	// SyncSyncing means a push to storage is in flight.
	SyncSyncing SyncStatus = "syncing"
	// SyncSynced means the local value matches storage.
	SyncSynced SyncStatus = "synced"
	// SyncError means the last load or push failed.
	SyncError SyncStatus = "error"
)

// Label returns the indicator text shown next to the history.
func (s SyncStatus) Label() string {
	switch s {
	case SyncSyncing:
		return "⏳ Syncing..."
	case SyncSynced:
		return "✓ Synced"
	case SyncError:
		return "⚠ Sync error"
	default:
		return "💾 Local"
	}
}
