package config

import (
	"eyebench/internal/pkg/utils"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
	godotenv.Load(".env.hapi")
	godotenv.Load(".env.cbfhir")
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Enabled:  utils.GetEnvBool("RABBITMQ_ENABLED", false),
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Enabled:    utils.GetEnvBool("MINIO_ENABLED", false),
			Port:       utils.GetEnvString("MINIO_PORT", "9000"),
			Host:       utils.GetEnvString("MINIO_HOST", "localhost"),
			Username:   utils.GetEnvString("MINIO_USERNAME", ""),
			Password:   utils.GetEnvString("MINIO_PASSWORD", ""),
			BucketName: utils.GetEnvString("MINIO_BUCKET_NAME", "loadtest-reports"),
			UseSSL:     utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	auth := Auth{
		StaticBearer: utils.GetEnvString("CBFHIR_STATIC_BEARER", ""),
		ClientID:     utils.GetEnvString("CBFHIR_CLIENT_ID", ""),
		ClientSecret: utils.GetEnvString("CBFHIR_CLIENT_SECRET", ""),
		TokenURL:     utils.GetEnvString("CBFHIR_TOKEN_URL", ""),
		Scope:        utils.GetEnvString("CBFHIR_SCOPE", "system/*.*"),
	}
	if auth.ClientID == "" {
		godotenv.Load(".env.medplum")
		auth.ClientID = utils.GetEnvString("MEDPLUM_CLIENT_ID", "")
		auth.ClientSecret = utils.GetEnvString("MEDPLUM_CLIENT_SECRET", "")
		auth.TokenURL = utils.GetEnvString("MEDPLUM_TOKEN_URL", "")
	}

	return &InternalConfig{
		App: App{
			Env:                      utils.GetEnvString("APP_ENV", "development"),
			StatsAddress:             utils.GetEnvString("APP_STATS_ADDRESS", ":9646"),
			ShutdownTimeoutInSeconds: utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
			RabbitMQResultQueue:      utils.GetEnvString("APP_RABBITMQ_RESULT_QUEUE", "loadtest-results"),
		},
		FHIR: FHIR{
			BaseUrl: utils.GetEnvString("CBFHIR_FHIR_URL", utils.GetEnvString("HAPI_FHIR_URL", "http://localhost:8080/fhir")),
			Timeout: utils.GetEnvDuration("FHIR_HTTP_TIMEOUT", 30*time.Second),
		},
		Auth: auth,
		Load: Load{
			Users:              utils.GetEnvInt("LOADTEST_USERS", 1),
			Iterations:         utils.GetEnvInt("LOADTEST_ITERATIONS", 1),
			WaitMinSeconds:     utils.GetEnvFloat("LOADTEST_WAIT_MIN_SECONDS", 1),
			WaitMaxSeconds:     utils.GetEnvFloat("LOADTEST_WAIT_MAX_SECONDS", 3),
			SummaryWithDetails: utils.GetEnvBool("LOADTEST_SUMMARY_WITH_DETAILS", true),
		},
	}
}
