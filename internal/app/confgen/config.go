package confgen

import (
	"eyebench/internal/pkg/exceptions"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config mirrors the deployment config.yaml the generator reads. The
// couchbase and admin sections are passed through untouched, only the app
// and deploy sections drive generation.
type Config struct {
	App       AppConfig              `yaml:"app"`
	Couchbase map[string]interface{} `yaml:"couchbase"`
	Admin     map[string]interface{} `yaml:"admin"`
	Deploy    DeployConfig           `yaml:"deploy"`
	Keycloak  KeycloakConfig         `yaml:"keycloak"`
}

type AppConfig struct {
	BaseURL string `yaml:"baseUrl" validate:"required,url"`
}

type DeployConfig struct {
	TLS         TLSConfig         `yaml:"tls"`
	Container   ContainerConfig   `yaml:"container"`
	JVM         JVMConfig         `yaml:"jvm"`
	Environment EnvironmentConfig `yaml:"environment"`
}

type TLSConfig struct {
	Enabled bool   `yaml:"enabled"`
	PemPath string `yaml:"pemPath"`
}

type ContainerConfig struct {
	MemLimit       string `yaml:"mem_limit"`
	MemReservation string `yaml:"mem_reservation"`
}

type JVMConfig struct {
	Xms string `yaml:"xms"`
	Xmx string `yaml:"xmx"`
}

type EnvironmentConfig struct {
	Overrides map[string]string `yaml:"overrides"`
}

type KeycloakConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Realm         string `yaml:"realm"`
	AdminUsername string `yaml:"adminUsername"`
	AdminPassword string `yaml:"adminPassword"`
	ClientID      string `yaml:"clientId"`
	ClientSecret  string `yaml:"clientSecret"`
}

var requiredSections = []string{"app", "couchbase", "admin", "deploy"}

// LoadConfig reads and validates the deployment config.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var probe map[string]interface{}
	if err := yaml.Unmarshal(raw, &probe); err != nil {
		return nil, exceptions.ErrConfigInvalidYAML(err)
	}
	for _, section := range requiredSections {
		if _, ok := probe[section]; !ok {
			return nil, exceptions.ErrConfigMissingKey(section)
		}
	}

	config := new(Config)
	if err := yaml.Unmarshal(raw, config); err != nil {
		return nil, exceptions.ErrConfigInvalidYAML(err)
	}
	if err := validate.Struct(config); err != nil {
		return nil, exceptions.ErrConfigValidation(err)
	}
	return config, nil
}
