package config

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	NotifierURL string `env:"NOTIFIER_URL"`
	Env         string `env:"APP_ENV" default:"dev"`
}
