package styles

// Checkbox markers for task rows.
var (
	IconPending   = "☐"
	IconCompleted = "☑"
	IconCursor    = "›"
	IconError     = "✗"
)

// Toast markers.
var (
	IconNotifyInfo    = "✓"
	IconNotifyWarning = "!"
	IconNotifyError   = "✗"
)
