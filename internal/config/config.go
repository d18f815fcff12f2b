package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"storefront.db"`

	Auth     Auth     `envPrefix:"AUTH_"`
	Stripe   Stripe   `envPrefix:"STRIPE_"`
	Session  Session  `envPrefix:"SESSION_"`
	Events   Events   `envPrefix:"EVENTS_"`
	Checkout Checkout `envPrefix:"CHECKOUT_"`
}

type Stripe struct {
	BaseApiURL string `env:"BASE_API_URL" envDefault:"https://api.stripe.com"`
	SecretKey  string `env:"SECRET_KEY"`
	PublicKey  string `env:"PUBLIC_KEY"`
	Currency   string `env:"CURRENCY" envDefault:"usd"`
}

type Auth struct {
	JWTSecret   string `env:"JWT_SECRET"`
	TokenTTLMin int    `env:"TOKEN_TTL_MINUTES" envDefault:"10080"`
	CookieName  string `env:"COOKIE_NAME" envDefault:"token"`
}

type Session struct {
	// redis:// URL; empty selects the in-memory store
	RedisURL   string `env:"REDIS_URL"`
	TTLMinutes int    `env:"TTL_MINUTES" envDefault:"120"`
}

type Events struct {
	// amqp:// URL; empty selects the no-op publisher
	AMQPURL  string `env:"AMQP_URL"`
	Exchange string `env:"EXCHANGE" envDefault:"storefront.orders"`
}

type Checkout struct {
	FreeShippingOver string `env:"FREE_SHIPPING_OVER" envDefault:"200"`
	ShippingFee      string `env:"SHIPPING_FEE" envDefault:"25"`
	TaxRate          string `env:"TAX_RATE" envDefault:"0.05"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
