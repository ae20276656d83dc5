package config

import "time"

type (
	InternalConfig struct {
		App  App
		FHIR FHIR
		Auth Auth
		Load Load
	}

	App struct {
		Env                      string
		StatsAddress             string
		ShutdownTimeoutInSeconds int
		RabbitMQResultQueue      string
	}

	FHIR struct {
		BaseUrl string
		Timeout time.Duration
	}

	Auth struct {
		StaticBearer string
		ClientID     string
		ClientSecret string
		TokenURL     string
		Scope        string
	}

	Load struct {
		Users              int
		Iterations         int
		WaitMinSeconds     float64
		WaitMaxSeconds     float64
		SummaryWithDetails bool
	}
)
