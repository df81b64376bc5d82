package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestMain(m *testing.M) {
	invalidYamlPath := "./invalid_config.yaml"
	invalidContent := []byte("invalid: [unclosed_list\nanother: value")

	// Create invalid YAML file
	if err := os.WriteFile(invalidYamlPath, invalidContent, 0600); err != nil {
		panic("failed to create invalid YAML file: " + err.Error())
	}

	// Run tests
	code := m.Run()

	// Clean up
	os.Remove(invalidYamlPath)

	os.Exit(code)
}

func TestReadLocalConfig(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantErr    bool
	}{
		{name: "successful", configPath: "../res/config.yaml"},
		{name: "file does not exist", configPath: "", wantErr: true},
		{name: "invalid YAML file", configPath: "./invalid_config.yaml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadLocalConfig(tt.configPath)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "bloguser", got.ServiceName)
			assert.Equal(t, "8080", got.Port)
			assert.Equal(t, DatabaseTypePostgres, got.Database.Type)
			assert.Equal(t, "pgx", got.Database.Postgres.Driver)
			assert.Equal(t, 30*time.Second, got.Database.Postgres.Options.ConnMaxLifetime)
			assert.Equal(t, 24*time.Hour, got.Session.TTL)
			assert.Equal(t, 10*time.Minute, got.RateLimit.ClientIdleTimeout)
			assert.Equal(t, "bloguser", got.Database.MongoDB.DatabaseName)
			assert.Equal(t, "localhost:6379", got.Redis.Addr())
		})
	}
}

func TestReadEnvOverrides(t *testing.T) {
	env := map[string]string{
		"DATABASE_URL":         "postgres://u:p@db:5432/x",
		"BLOGUSER_LOG_LEVEL":   " debug ",
		"BLOGUSER_BCRYPT_COST": "14",
		"UNRELATED":            "ignored",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	got, err := ReadEnvOverrides(lookup)
	require.NoError(t, err)
	assert.Equal(t, EnvOverrides{
		DatabaseURL: "postgres://u:p@db:5432/x",
		LogLevel:    "debug",
		BcryptCost:  14,
	}, got)

	env["BLOGUSER_BCRYPT_COST"] = "lots"
	_, err = ReadEnvOverrides(lookup)
	assert.ErrorContains(t, err, ErrDecodingEnv)
}

func TestApplyOverrides(t *testing.T) {
	cfg := &ServiceConfig{Database: Database{Type: DatabaseTypeMongo}}
	cfg.ApplyOverrides(EnvOverrides{
		DatabaseURL:   "mongodb://mongo:27017/prod",
		Port:          "9090",
		RedisPassword: "hunter2",
		BcryptCost:    13,
	})

	assert.Equal(t, "mongodb://mongo:27017/prod", cfg.Database.MongoDB.DSN)
	assert.Empty(t, cfg.Database.Postgres.DSN)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "hunter2", cfg.Redis.Password)
	assert.Equal(t, 13, cfg.Security.BcryptCost)
}

func validConfig() *ServiceConfig {
	cfg := &ServiceConfig{
		ServiceName:    "bloguser",
		LogLevel:       "info",
		Host:           "localhost",
		Port:           "8080",
		PrivateKeyPath: "key.pem",
		Database: Database{
			Type:     DatabaseTypePostgres,
			Postgres: PostgresConfig{DSN: "postgres://localhost/bloguser"},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ServiceConfig)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *ServiceConfig) {}},
		{name: "missing service name", mutate: func(c *ServiceConfig) { c.ServiceName = "" }, wantErr: true},
		{name: "non numeric port", mutate: func(c *ServiceConfig) { c.Port = "http" }, wantErr: true},
		{name: "bcrypt cost below minimum", mutate: func(c *ServiceConfig) { c.Security.BcryptCost = 4 }, wantErr: true},
		{name: "unknown database", mutate: func(c *ServiceConfig) { c.Database.Type = "sqlite" }, wantErr: true},
		{name: "postgres without dsn", mutate: func(c *ServiceConfig) { c.Database.Postgres.DSN = "" }, wantErr: true},
		{name: "unknown postgres driver", mutate: func(c *ServiceConfig) { c.Database.Postgres.Driver = "mysql" }, wantErr: true},
		{
			name: "mongo section only checked for mongo",
			mutate: func(c *ServiceConfig) {
				c.Database.Type = DatabaseTypeMongo
			},
			wantErr: true,
		},
		{
			name: "valid mongo",
			mutate: func(c *ServiceConfig) {
				c.Database.Type = DatabaseTypeMongo
				c.Database.MongoDB.DSN = "mongodb://localhost:27017/bloguser"
				c.Database.MongoDB.DatabaseName = "bloguser"
			},
		},
		{name: "redis store needs redis", mutate: func(c *ServiceConfig) { c.Session.Store = SessionStoreRedis }, wantErr: true},
		{
			name: "redis store",
			mutate: func(c *ServiceConfig) {
				c.Session.Store = SessionStoreRedis
				c.Redis = RedisConfig{Host: "localhost", Port: "6379"}
			},
		},
		{name: "bad log format", mutate: func(c *ServiceConfig) { c.LogFormat = "xml" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorContains(t, err, ErrValidationFailed)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("BLOGUSER_PORT", "9191")
	t.Setenv("DATABASE_URL", "postgres://env/bloguser")

	cfg, err := Load("../res/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "9191", cfg.Port)
	assert.Equal(t, "postgres://env/bloguser", cfg.Database.Postgres.DSN)
	assert.Equal(t, DefaultCookieName, cfg.Cookie.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, ErrReadingConfig)
}

func TestBuildServerAPIOptions(t *testing.T) {
	type args struct {
		cfg MongoServerOptions
	}
	tests := []struct {
		name string
		args args
		want *options.ServerAPIOptions
	}{
		{
			name: "default options",
			args: args{
				cfg: MongoServerOptions{
					APIVersion:           "1",
					SetStrict:            true,
					SetDeprecationErrors: true,
				},
			},
			want: options.ServerAPI(options.ServerAPIVersion("1")).
				SetStrict(true).
				SetDeprecationErrors(true),
		},
		{
			name: "custom options",
			args: args{
				cfg: MongoServerOptions{
					APIVersion:           "2",
					SetStrict:            true,
					SetDeprecationErrors: false,
				},
			},
			want: options.ServerAPI(options.ServerAPIVersion("2")).
				SetStrict(true).
				SetDeprecationErrors(false),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildServerAPIOptions(tt.args.cfg); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildServerAPIOptions() = %v, want %v", got, tt.want)
			}
		})
	}
}
