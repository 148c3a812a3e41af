package config

type PaymentConfig struct {
	DefaultProvider string          `yaml:"default_provider"`
	Stripe          *StripeConfig   `yaml:"stripe"`
	Razorpay        *RazorpayConfig `yaml:"razorpay"`
	Currency        string          `yaml:"currency"`
}

type StripeConfig struct {
	PublishableKey string `yaml:"publishable_key"`
	SecretKey      string `yaml:"secret_key"`
	WebhookSecret  string `yaml:"webhook_secret"`
}

type RazorpayConfig struct {
	KeyID         string `yaml:"key_id"`
	KeySecret     string `yaml:"key_secret"`
	WebhookSecret string `yaml:"webhook_secret"`
}

func loadPaymentConfig() *PaymentConfig {
	return &PaymentConfig{
		DefaultProvider: getEnv("PAYMENT_DEFAULT_PROVIDER", "stripe"),
		Stripe: &StripeConfig{
			PublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
			SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret:  getEnv("STRIPE_WEBHOOK_SECRET", ""),
		},
		Razorpay: &RazorpayConfig{
			KeyID:         getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret:     getEnv("RAZORPAY_KEY_SECRET", ""),
			WebhookSecret: getEnv("RAZORPAY_WEBHOOK_SECRET", ""),
		},
		Currency: getEnv("PAYMENT_CURRENCY", "USD"),
	}
}
