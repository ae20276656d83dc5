package confgen

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestAutoDetectPorts(t *testing.T) {
	cases := []struct {
		baseURL string
		http    int
		https   int
	}{
		{"https://fhir.example.com", 80, 443},
		{"http://localhost:8080", 8080, 8443},
		{"http://127.0.0.1:8080/fhir", 8080, 8443},
		{"http://localhost", 80, 443},
		{"http://fhir.example.com", 80, 443},
	}
	for _, tc := range cases {
		httpPort, httpsPort := AutoDetectPorts(tc.baseURL)
		assert.Equal(t, tc.http, httpPort, tc.baseURL)
		assert.Equal(t, tc.https, httpsPort, tc.baseURL)
	}
}

func TestLoadConfigRequiresSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  baseUrl: http://localhost:8080\ncouchbase: {}\ndeploy:\n  tls:\n    enabled: false\n"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin")
}

func TestLoadConfigValidatesBaseURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `app:
  baseUrl: not-a-url
couchbase: {}
admin: {}
deploy:
  tls:
    enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestGenerateDockerComposeWithoutTLS(t *testing.T) {
	config := &Config{
		App: AppConfig{BaseURL: "http://localhost:8080"},
		Deploy: DeployConfig{
			Container: ContainerConfig{MemLimit: "2g", MemReservation: "1g"},
			JVM:       JVMConfig{Xms: "512m", Xmx: "1g"},
		},
	}
	compose := GenerateDockerCompose(config)

	haproxy := compose.Services["haproxy"]
	require.NotNil(t, haproxy)
	assert.Equal(t, []string{"8080:80"}, haproxy.Ports)
	assert.Len(t, haproxy.Volumes, 1)

	server := compose.Services["fhir-server"]
	require.NotNil(t, server)
	assert.Contains(t, server.Environment["JAVA_TOOL_OPTIONS"], "-Xms512m -Xmx1g")
	assert.Equal(t, "2g", server.Deploy.Resources.Limits.Memory)
}

func TestGenerateDockerComposeWithTLS(t *testing.T) {
	config := &Config{
		App: AppConfig{BaseURL: "https://fhir.example.com"},
		Deploy: DeployConfig{
			TLS: TLSConfig{Enabled: true},
		},
	}
	compose := GenerateDockerCompose(config)

	haproxy := compose.Services["haproxy"]
	require.Len(t, haproxy.Ports, 2)
	assert.Equal(t, "443:443", haproxy.Ports[1])
	assert.Contains(t, haproxy.Volumes[1], "./certs/server.pem")
}

func TestGenerateHAProxyConfigTLSBlock(t *testing.T) {
	plain := GenerateHAProxyConfig(&Config{})
	assert.NotContains(t, plain, "ssl crt")
	assert.Contains(t, plain, "backend backend-fhir-server")

	tls := GenerateHAProxyConfig(&Config{Deploy: DeployConfig{TLS: TLSConfig{Enabled: true}}})
	assert.Contains(t, tls, "bind *:443 ssl crt /etc/haproxy/certs/server.pem")
	assert.Contains(t, tls, "redirect scheme https")
}

func TestInsertKeycloakIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docker-compose.yml")
	require.NoError(t, os.WriteFile(path, []byte("services:\n  fhir-server:\n    image: test\n"), 0o644))
	logger := testLogger()

	require.NoError(t, InsertKeycloak(dir, logger))
	require.NoError(t, InsertKeycloak(dir, logger))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var data map[string]interface{}
	require.NoError(t, yaml.Unmarshal(raw, &data))
	services := data["services"].(map[string]interface{})
	require.Contains(t, services, "keycloak")
	keycloak := services["keycloak"].(map[string]interface{})
	assert.Equal(t, "quay.io/keycloak/keycloak:24.0.1", keycloak["image"])
}

func TestRemoveKeycloakPrunesDependency(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docker-compose.yml")
	content := `services:
  fhir-server:
    image: test
    depends_on:
      - keycloak
  keycloak:
    image: quay.io/keycloak/keycloak:24.0.1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	require.NoError(t, RemoveKeycloak(dir, testLogger()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var data map[string]interface{}
	require.NoError(t, yaml.Unmarshal(raw, &data))
	services := data["services"].(map[string]interface{})
	assert.NotContains(t, services, "keycloak")
	server := services["fhir-server"].(map[string]interface{})
	assert.NotContains(t, server, "depends_on")
}

func TestPatchApplicationYML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "application.yml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 8080\n"), 0o644))

	require.NoError(t, PatchApplicationYML(path, true, "http://keycloak:8081/auth/realms/fhir/protocol/openid-connect/certs", testLogger()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var data map[string]interface{}
	require.NoError(t, yaml.Unmarshal(raw, &data))

	security := data["app"].(map[string]interface{})["security"].(map[string]interface{})
	assert.Equal(t, true, security["use-keycloak"])

	jwt := data["spring"].(map[string]interface{})["security"].(map[string]interface{})["oauth2"].(map[string]interface{})["resourceserver"].(map[string]interface{})["jwt"].(map[string]interface{})
	assert.Contains(t, jwt["jwk-set-uri"], "openid-connect/certs")

	// original preserved and backup written
	_, err = os.Stat(path + ".bak")
	assert.NoError(t, err)
	assert.Equal(t, 8080, data["server"].(map[string]interface{})["port"])
}

func TestPatchApplicationYMLKeepsTrailingDocuments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "application.yml")
	content := `server:
  port: 8080
---
spring:
  config:
    activate:
      on-profile: prod
  datasource:
    url: jdbc:postgresql://db:5432/fhir
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	require.NoError(t, PatchApplicationYML(path, true, "", testLogger()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var docs []map[string]interface{}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	for {
		var doc map[string]interface{}
		if err := decoder.Decode(&doc); err != nil {
			break
		}
		docs = append(docs, doc)
	}
	require.Len(t, docs, 2)

	security := docs[0]["app"].(map[string]interface{})["security"].(map[string]interface{})
	assert.Equal(t, true, security["use-keycloak"])

	activate := docs[1]["spring"].(map[string]interface{})["config"].(map[string]interface{})["activate"].(map[string]interface{})
	assert.Equal(t, "prod", activate["on-profile"])
}
