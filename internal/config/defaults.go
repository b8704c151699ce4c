// Package config provides configuration loading and defaults for climatiqq.
package config

// DefaultConfigDir is the default location for climatiqq configuration.
const DefaultConfigDir = "~/.config/climatiqq"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "climatiqq.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// EnvPrefix prefixes environment overrides, e.g. CLIMATIQQ_API_ADDR.
const EnvPrefix = "CLIMATIQQ"

// DefaultUser owns entries logged without an explicit user.
const DefaultUser = "default"

// DefaultDatabase stores data in a local SQLite file.
var DefaultDatabase = Database{
	Driver: DriverSQLite,
	DSN:    "",
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}

// DefaultLog holds the default logging settings.
var DefaultLog = Log{
	Level:  "info",
	Pretty: true,
}

// DefaultAPI holds the default HTTP API settings.
var DefaultAPI = API{
	Addr: ":8080",
}

// DefaultMQTT holds the default ingest settings.
var DefaultMQTT = MQTT{
	Broker:   "tcp://localhost:1883",
	Topic:    "climatiqq/entries",
	ClientID: "climatiqq-ingest",
	QoS:      1,
}

// DefaultStats mirrors the 30-day and 7-day windows of the stats view.
var DefaultStats = Stats{
	RecentDays:   30,
	ActivityDays: 7,
}

// DefaultSuggest holds the default suggestion settings. MaxEntries of 0
// feeds every stored entry to the engine.
var DefaultSuggest = Suggest{
	MaxEntries:  0,
	SaveHistory: true,
}
