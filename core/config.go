package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env      string
	Debug    bool
	TestMode bool
	AppName  string
	Build    string

	// BaseAPIURL is the root of the remote EduSpace REST API that every
	// screen talks to.
	BaseAPIURL string

	RollbarToken string

	// CookieMaxAge bounds the durable credential cookie ("remember me").
	CookieMaxAge time.Duration

	Server struct {
		Host            string
		Address         string
		ShutdownTimeout time.Duration
	}
}

// NewConfig loads the app configuration from the environment, with an optional
// config/.env.<env> file layered underneath.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "EduSpace")
	v.SetDefault("build", "dev")
	v.SetDefault("baseAPIURL", "http://localhost:8000")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddress", ":3000")
	v.SetDefault("shutdownTimeout", 5*time.Second)
	v.SetDefault("cookieMaxAge", 30*24*time.Hour)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     env == "TEST",
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		BaseAPIURL:   strings.TrimRight(v.GetString("baseAPIURL"), "/"),
		RollbarToken: v.GetString("rollbarToken"),
		CookieMaxAge: v.GetDuration("cookieMaxAge"),
	}
	conf.Server.Host = v.GetString("serverHost")
	conf.Server.Address = v.GetString("serverAddress")
	conf.Server.ShutdownTimeout = v.GetDuration("shutdownTimeout")
	return conf
}

// Getwd tries to find the project root.
// go-test changes the working directory to the test package being run;
// walk up until the go.mod directory instead.
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if _, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}
