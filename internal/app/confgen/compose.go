package confgen

import (
	"fmt"
	"net/url"
	"strings"
)

// ComposeFile is the generated docker-compose.yml. Typed structs keep the
// output field order stable across runs.
type ComposeFile struct {
	Services map[string]*ComposeService `yaml:"services"`
}

type ComposeService struct {
	Build         *ComposeBuild     `yaml:"build,omitempty"`
	Image         string            `yaml:"image,omitempty"`
	ContainerName string            `yaml:"container_name,omitempty"`
	Environment   map[string]string `yaml:"environment,omitempty"`
	Ports         []string          `yaml:"ports,omitempty"`
	Command       string            `yaml:"command,omitempty"`
	Volumes       []string          `yaml:"volumes,omitempty"`
	Restart       string            `yaml:"restart,omitempty"`
	Deploy        *ComposeDeploy    `yaml:"deploy,omitempty"`
	Logging       *ComposeLogging   `yaml:"logging,omitempty"`
	DependsOn     []string          `yaml:"depends_on,omitempty"`
}

type ComposeBuild struct {
	Context    string `yaml:"context"`
	Dockerfile string `yaml:"dockerfile"`
}

type ComposeDeploy struct {
	Resources ComposeResources `yaml:"resources"`
}

type ComposeResources struct {
	Limits       ComposeMemory `yaml:"limits"`
	Reservations ComposeMemory `yaml:"reservations"`
}

type ComposeMemory struct {
	Memory string `yaml:"memory"`
}

type ComposeLogging struct {
	Driver  string            `yaml:"driver"`
	Options map[string]string `yaml:"options"`
}

// AutoDetectPorts derives the published HTTP and HTTPS ports from the
// configured base URL. Development URLs on localhost:8080 keep their port,
// everything else gets the standard 80/443 pair.
func AutoDetectPorts(baseURL string) (int, int) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return 80, 443
	}
	if parsed.Scheme == "https" {
		return 80, 443
	}
	host := parsed.Host
	if strings.Contains(host, "localhost") || strings.Contains(host, "127.0.0.1") {
		if strings.Contains(host, ":8080") {
			return 8080, 8443
		}
	}
	return 80, 443
}

// GenerateDockerCompose builds the compose file for the FHIR server, the
// admin UI and the HAProxy front door.
func GenerateDockerCompose(config *Config) *ComposeFile {
	httpPort, httpsPort := AutoDetectPorts(config.App.BaseURL)

	env := map[string]string{
		"JAVA_TOOL_OPTIONS": fmt.Sprintf("-Xms%s -Xmx%s -XX:+UseG1GC -XX:MaxGCPauseMillis=200",
			config.Deploy.JVM.Xms, config.Deploy.JVM.Xmx),
	}
	for key, value := range config.Deploy.Environment.Overrides {
		env[key] = value
	}

	haproxy := &ComposeService{
		Image:         "haproxy:2.8-alpine",
		ContainerName: "haproxy",
		Ports:         []string{fmt.Sprintf("%d:80", httpPort)},
		Volumes:       []string{"./haproxy.cfg:/usr/local/etc/haproxy/haproxy.cfg:ro"},
		Restart:       "unless-stopped",
		DependsOn:     []string{"fhir-server", "fhir-admin"},
	}
	if config.Deploy.TLS.Enabled {
		pemPath := config.Deploy.TLS.PemPath
		if pemPath == "" {
			pemPath = "./certs/server.pem"
		}
		haproxy.Ports = append(haproxy.Ports, fmt.Sprintf("%d:443", httpsPort))
		haproxy.Volumes = append(haproxy.Volumes, pemPath+":/etc/haproxy/certs/server.pem:ro")
	}

	return &ComposeFile{
		Services: map[string]*ComposeService{
			"fhir-server": {
				Build:         &ComposeBuild{Context: "./backend", Dockerfile: "Dockerfile"},
				Image:         "ghcr.io/couchbaselabs/couchbase-fhir-ce/fhir-server:latest",
				ContainerName: "fhir-server",
				Environment:   env,
				Volumes:       []string{"./config.yaml:/config.yaml:ro", "./logs:/app/logs"},
				Restart:       "unless-stopped",
				Deploy: &ComposeDeploy{Resources: ComposeResources{
					Limits:       ComposeMemory{Memory: config.Deploy.Container.MemLimit},
					Reservations: ComposeMemory{Memory: config.Deploy.Container.MemReservation},
				}},
				Logging: &ComposeLogging{
					Driver:  "json-file",
					Options: map[string]string{"max-size": "50m", "max-file": "3"},
				},
			},
			"fhir-admin": {
				Build:         &ComposeBuild{Context: "./frontend", Dockerfile: "Dockerfile"},
				Image:         "ghcr.io/couchbaselabs/couchbase-fhir-ce/fhir-admin:latest",
				ContainerName: "fhir-admin",
				Restart:       "unless-stopped",
				Deploy: &ComposeDeploy{Resources: ComposeResources{
					Limits:       ComposeMemory{Memory: "512m"},
					Reservations: ComposeMemory{Memory: "256m"},
				}},
			},
			"haproxy": haproxy,
		},
	}
}
