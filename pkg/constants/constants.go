// Package constants provides shared constants for the finance-calculators application.
package constants

import "math"

// Period constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// QuartersPerYear is the number of quarters in a year
	QuartersPerYear = 4

	// SemiAnnualPeriods is the number of half-years in a year
	SemiAnnualPeriods = 2

	// AnnualPeriods is the number of periods for annual compounding
	AnnualPeriods = 1
)

// Rounding constants
const (
	// DecimalPrecision is the precision for paise rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyPlaces is the number of decimals shown for currency in result records
	CurrencyPlaces int32 = 0

	// PercentPlaces is the number of decimals shown for percentages and paise-level charges
	PercentPlaces int32 = 2

	// CurrencyTolerance is the tolerance for currency comparisons (1 paisa)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Unbounded is the upper bound of the final tax slab.
var Unbounded = math.Inf(1)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"

	// OutputFormatPDF is the PDF report format
	OutputFormatPDF = "pdf"
)

// OutputFormats lists every supported output format in display order.
var OutputFormats = []string{
	OutputFormatPretty,
	OutputFormatCSV,
	OutputFormatJSON,
	OutputFormatYAML,
	OutputFormatPDF,
}

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "finance-calculators.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "FINCALC"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxRequestSizeBytes int64 = 256 * 1024

	// DefaultReadTimeoutSeconds is the default HTTP read timeout
	DefaultReadTimeoutSeconds = 15

	// DefaultWriteTimeoutSeconds is the default HTTP write timeout
	DefaultWriteTimeoutSeconds = 15
)

// Storage defaults
const (
	// StorageBackendMemory keeps records in process memory
	StorageBackendMemory = "memory"

	// StorageBackendSQLite persists records in a SQLite file
	StorageBackendSQLite = "sqlite"

	// StorageBackendMongo persists records in MongoDB
	StorageBackendMongo = "mongo"

	// StorageBackendNone disables persistence
	StorageBackendNone = "none"

	// DefaultSQLitePath is the default SQLite database location
	DefaultSQLitePath = "./data/finance-calculators.db"

	// DefaultMongoDatabase is the default MongoDB database name
	DefaultMongoDatabase = "finance_calculators"

	// DefaultMongoTimeoutSeconds bounds MongoDB connection setup
	DefaultMongoTimeoutSeconds = 10

	// DefaultRedisAddress is the default Redis address for the preferences cache
	DefaultRedisAddress = "localhost:6379"

	// DefaultRedisTTLMinutes is the default preferences cache TTL
	DefaultRedisTTLMinutes = 60

	// HistoryCollection is the history table/collection name
	HistoryCollection = "calculator_history"

	// PreferencesCollection is the preferences table/collection name
	PreferencesCollection = "user_preferences"
)
