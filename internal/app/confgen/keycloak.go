package confgen

import (
	"bytes"
	"eyebench/internal/pkg/exceptions"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const keycloakServiceName = "keycloak"

func keycloakService() map[string]interface{} {
	return map[string]interface{}{
		"image": "quay.io/keycloak/keycloak:24.0.1",
		"environment": map[string]interface{}{
			"KEYCLOAK_ADMIN":          "${KEYCLOAK_ADMIN_USERNAME}",
			"KEYCLOAK_ADMIN_PASSWORD": "${KEYCLOAK_ADMIN_PASSWORD}",
			"KC_IMPORT":               "true",
			"KC_HEALTH_ENABLED":       "true",
		},
		"ports":   []interface{}{"8081:8080"},
		"command": "start-dev --http-relative-path=/auth",
		"restart": "unless-stopped",
		"volumes": []interface{}{"./scripts/keycloak/realm.json:/opt/keycloak/data/import/realm.json:ro"},
	}
}

func composeFiles(rootDir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"docker-compose*.yml", "docker-compose*.yaml"} {
		matches, err := filepath.Glob(filepath.Join(rootDir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

func loadComposeMap(path string) (map[string]interface{}, []byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var data map[string]interface{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, nil, exceptions.ErrConfigInvalidYAML(err)
	}
	if data == nil {
		data = make(map[string]interface{})
	}
	return data, raw, nil
}

func writeComposeMap(path string, original []byte, data map[string]interface{}, backupSuffix string) error {
	if err := os.WriteFile(path+backupSuffix, original, 0o644); err != nil {
		return err
	}
	content, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o644)
}

func servicesOf(data map[string]interface{}) map[string]interface{} {
	services, ok := data["services"].(map[string]interface{})
	if !ok {
		services = make(map[string]interface{})
		data["services"] = services
	}
	return services
}

// InsertKeycloak adds the Keycloak service to every compose file under
// rootDir. Files already carrying the service are left untouched.
func InsertKeycloak(rootDir string, logger *logrus.Logger) error {
	files, err := composeFiles(rootDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no docker-compose files found in %s", rootDir)
	}

	for _, path := range files {
		data, original, err := loadComposeMap(path)
		if err != nil {
			return err
		}
		services := servicesOf(data)
		if _, ok := services[keycloakServiceName]; ok {
			logger.WithField("path", path).Info("keycloak already present")
			continue
		}
		services[keycloakServiceName] = keycloakService()
		if err := writeComposeMap(path, original, data, ".bak"); err != nil {
			return err
		}
		logger.WithField("path", path).Info("inserted keycloak service")
	}
	return nil
}

// RemoveKeycloak strips the Keycloak service from every compose file under
// rootDir, pruning the fhir-server depends_on entry along with it.
func RemoveKeycloak(rootDir string, logger *logrus.Logger) error {
	files, err := composeFiles(rootDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no docker-compose files found in %s", rootDir)
	}

	for _, path := range files {
		data, original, err := loadComposeMap(path)
		if err != nil {
			return err
		}
		services := servicesOf(data)
		if _, ok := services[keycloakServiceName]; !ok {
			logger.WithField("path", path).Info("no keycloak service present")
			continue
		}
		delete(services, keycloakServiceName)
		pruneKeycloakDependency(services)
		if err := writeComposeMap(path, original, data, ".bak.remove"); err != nil {
			return err
		}
		logger.WithField("path", path).Info("removed keycloak service")
	}
	return nil
}

func pruneKeycloakDependency(services map[string]interface{}) {
	server, ok := services["fhir-server"].(map[string]interface{})
	if !ok {
		server, ok = services["fhir_server"].(map[string]interface{})
	}
	if !ok {
		return
	}
	deps, ok := server["depends_on"].([]interface{})
	if !ok {
		return
	}
	kept := make([]interface{}, 0, len(deps))
	for _, dep := range deps {
		if name, ok := dep.(string); ok && name == keycloakServiceName {
			continue
		}
		kept = append(kept, dep)
	}
	if len(kept) == 0 {
		delete(server, "depends_on")
	} else {
		server["depends_on"] = kept
	}
}

// PatchApplicationYML toggles Keycloak security in the backend's Spring
// application.yml and points it at the given JWKS endpoint. Spring files
// are often multi-document (profile sections after `---`); only the first
// document is patched, the rest are written back untouched. The first
// write keeps a plain .bak copy of the original.
func PatchApplicationYML(path string, useKeycloak bool, jwksURI string, logger *logrus.Logger) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	backup := path + ".bak"
	if _, err := os.Stat(backup); os.IsNotExist(err) {
		if err := os.WriteFile(backup, raw, 0o644); err != nil {
			return err
		}
	}

	var docs []map[string]interface{}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	for {
		var doc map[string]interface{}
		if err := decoder.Decode(&doc); err != nil {
			if err == io.EOF {
				break
			}
			return exceptions.ErrConfigInvalidYAML(err)
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		docs = append(docs, make(map[string]interface{}))
	}
	if docs[0] == nil {
		docs[0] = make(map[string]interface{})
	}

	security := ensurePath(docs[0], "app", "security")
	security["use-keycloak"] = useKeycloak

	jwt := ensurePath(docs[0], "spring", "security", "oauth2", "resourceserver", "jwt")
	if jwksURI != "" {
		jwt["jwk-set-uri"] = jwksURI
	} else {
		delete(jwt, "jwk-set-uri")
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	for _, doc := range docs {
		if err := encoder.Encode(doc); err != nil {
			return err
		}
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"path":         path,
		"use_keycloak": useKeycloak,
	}).Info("patched application.yml")
	return nil
}

func ensurePath(data map[string]interface{}, keys ...string) map[string]interface{} {
	current := data
	for _, key := range keys {
		next, ok := current[key].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			current[key] = next
		}
		current = next
	}
	return current
}

// WriteEnvExports prints the Keycloak section as shell variable
// assignments so deploy scripts can source them.
func WriteEnvExports(w io.Writer, keycloak KeycloakConfig) {
	fmt.Fprintf(w, "KEYCLOAK_ENABLED='%t'\n", keycloak.Enabled)
	fmt.Fprintf(w, "KEYCLOAK_URL='%s'\n", keycloak.URL)
	fmt.Fprintf(w, "KEYCLOAK_REALM='%s'\n", keycloak.Realm)
	fmt.Fprintf(w, "KEYCLOAK_ADMIN_USERNAME='%s'\n", keycloak.AdminUsername)
	fmt.Fprintf(w, "KEYCLOAK_ADMIN_PASSWORD='%s'\n", keycloak.AdminPassword)
	fmt.Fprintf(w, "KEYCLOAK_CLIENT_ID='%s'\n", keycloak.ClientID)
	fmt.Fprintf(w, "KEYCLOAK_CLIENT_SECRET='%s'\n", keycloak.ClientSecret)
}
