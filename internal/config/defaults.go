package config

// Backends.
const (
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			BasePath:        "/api",
			ReadTimeout:     15,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Storage: Storage{
			Backend:       BackendSQLite,
			SQLitePath:    "katalog.db",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "katalog",
		},
		Images: Images{
			MaxDimension:   1024,
			JPEGQuality:    85,
			MaxUploadBytes: 5 << 20,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}
