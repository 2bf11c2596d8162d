package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName            string
		Env                string // DEV (local; default), TEST, QA, PROD
		Build              string
		Debug              bool
		TestMode           bool
		SecretKey          string
		RollbarToken       string
		SendgridAPIKey     string
		DefaultFromEmail   mail.Address
		RecordsOfficeEmail mail.Address

		Server    ServerConfig
		Academics AcademicsConfig
		Seeds     SeedsConfig
	}

	ServerConfig struct {
		Host                      string
		Address                   string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		LoginRateLimit            string // ulule/limiter formatted rate, eg. "10-M"
	}

	AcademicsConfig struct {
		MaxUploadSize int64  // bytes
		Backend       string // console | mail
	}

	// SeedsConfig points to the static credential list and department roster.
	// Empty paths fall back to the seeds embedded in the binary.
	SeedsConfig struct {
		UsersFile  string
		RosterFile string
	}
)

// NewConfig loads the configuration from defaults, `config/.env.<env>` (if it exists) and the environment.
// Environment variables are prefixed with the uppercased env, eg. `PROD_SECRETKEY`, `PROD_SERVER_ADDRESS`.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Academia")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "x7$kq!2v+9aw@e#t3l0p(zr8)mf_c5u4&yhn%6jd^sbg=1oi")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("defaultFromEmail", "Academia <noreply@localhost>")
	v.SetDefault("recordsOfficeEmail", "Records Office <records@localhost>")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 8*time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 24*time.Hour)
	v.SetDefault("server.loginRateLimit", "10-M")
	v.SetDefault("academics.maxUploadSize", int64(10<<20))
	v.SetDefault("academics.backend", "console")
	v.SetDefault("seeds.usersFile", "")
	v.SetDefault("seeds.rosterFile", "")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(configDir(), ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		AppName:            v.GetString("appName"),
		Env:                env,
		Build:              v.GetString("build"),
		Debug:              v.GetBool("debug"),
		TestMode:           v.GetBool("testMode"),
		SecretKey:          v.GetString("secretKey"),
		RollbarToken:       v.GetString("rollbarToken"),
		SendgridAPIKey:     v.GetString("sendgridApiKey"),
		DefaultFromEmail:   parseAddress(v.GetString("defaultFromEmail")),
		RecordsOfficeEmail: parseAddress(v.GetString("recordsOfficeEmail")),
		Server: ServerConfig{
			Host:                      v.GetString("server.host"),
			Address:                   v.GetString("server.address"),
			DebugHost:                 v.GetString("server.debugHost"),
			ShutdownTimeout:           v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("server.jwtRefreshExpirationDelta"),
			LoginRateLimit:            v.GetString("server.loginRateLimit"),
		},
		Academics: AcademicsConfig{
			MaxUploadSize: v.GetInt64("academics.maxUploadSize"),
			Backend:       v.GetString("academics.backend"),
		},
		Seeds: SeedsConfig{
			UsersFile:  v.GetString("seeds.usersFile"),
			RosterFile: v.GetString("seeds.rosterFile"),
		},
	}
}

// configDir is `$CONFIG_DIR` or `./config`.
func configDir() string {
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return dir
	}
	return "config"
}

func parseAddress(s string) mail.Address {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return mail.Address{Address: s}
	}
	return *addr
}
