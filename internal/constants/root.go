package constants

import "time"

const (
	AppName            = "sadhana"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/sadhana/sadhana.toml"
	DefaultDataDir     = "~/.local/share/sadhana"
	Version            = "v0.3.0"

	// Environment overrides
	EnvDBConnection = "SADHANA_DB_CONNECTION"
	EnvConfigPath   = "SADHANA_CONFIG"

	// DateFormat is the calendar-day layout used for merge keys and streak sets (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimestampFormat matches the millisecond ISO-8601 strings stored in every record's date field.
	TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

	// Storage keys. These are the top-level keys of exported backup files; never rename them.
	KeyJapaHistory    = "japa_history"
	KeyRecitationLog  = "recitation_log"
	KeyGratitudeNotes = "gratitude_notes"
	KeyGoalsList      = "goals_list"

	// Redis keys are namespaced under this prefix.
	RedisKeyPrefix = "sadhana:"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "SadhnaFlow_Backup_"
	BackupFileSuffix = ".json"
	BackupTimeLayout = "20060102-1504"

	// Insights defaults
	DefaultTopN    = 5
	WeeklyWindow   = 7 * 24 * time.Hour
	DailySeriesLen = 7

	// Server defaults
	DefaultServerAddr = "127.0.0.1:8787"
	ShutdownTimeout   = 10 * time.Second

	LockfileName = "sadhana.lock"
)

// AllKeys lists the storage keys in export order.
var AllKeys = []string{
	KeyJapaHistory,
	KeyRecitationLog,
	KeyGratitudeNotes,
	KeyGoalsList,
}

// IsKnownKey reports whether key is one of the four collection keys.
func IsKnownKey(key string) bool {
	for _, k := range AllKeys {
		if k == key {
			return true
		}
	}
	return false
}
