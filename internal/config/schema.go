package config

// Config is the complete catalog configuration
type Config struct {
	Database DatabaseConfig `koanf:"database" yaml:"database"`
	Assets   AssetsConfig   `koanf:"assets" yaml:"assets"`
	Logging  LoggingConfig  `koanf:"logging" yaml:"logging"`
}

// Record store drivers
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// DatabaseConfig selects and locates the record store
type DatabaseConfig struct {
	// Driver is sqlite or mongo
	Driver string `koanf:"driver" yaml:"driver"`
	// Path is the sqlite database file
	Path          string `koanf:"path" yaml:"path,omitempty"`
	MongoURI      string `koanf:"mongo_uri" yaml:"mongo_uri,omitempty"`
	MongoDatabase string `koanf:"mongo_database" yaml:"mongo_database,omitempty"`
}

// AssetsConfig controls where uploads live and what is accepted
type AssetsConfig struct {
	// Root is the asset directory; its last segment prefixes stored paths
	Root   string `koanf:"root" yaml:"root"`
	Folder string `koanf:"folder" yaml:"folder"`

	MaxUploadBytes    int64    `koanf:"max_upload_bytes" yaml:"max_upload_bytes"`
	AllowedTypes      []string `koanf:"allowed_types" yaml:"allowed_types"`
	DeleteConcurrency int      `koanf:"delete_concurrency" yaml:"delete_concurrency"`
}

// LoggingConfig mirrors logging.Config without the output writer
type LoggingConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
	Caller bool   `koanf:"caller" yaml:"caller"`
}
