package confgen

import (
	"strings"
	"time"
)

const haproxyHeader = `# =============================================================================
# HAProxy Configuration - AUTO-GENERATED from config.yaml
# =============================================================================
# Generated: %TIMESTAMP%
# DO NOT EDIT MANUALLY - regenerate from config.yaml instead
# =============================================================================

global
    log stdout format raw local0
    maxconn 4096
    tune.ssl.default-dh-param 2048

defaults
    log     global
    mode    http
    option  httplog
    option  dontlognull
    timeout connect 5000ms
    timeout client  50000ms
    timeout server  50000ms
    option  forwardfor
    option  http-server-close

# HAProxy Stats Page
listen stats
    bind *:8404
    stats enable
    stats uri /haproxy?stats
    stats refresh 5s
    stats auth admin:admin

frontend http-in
    bind *:80
`

const haproxyTLSBind = `    bind *:443 ssl crt /etc/haproxy/certs/server.pem
    http-request redirect scheme https unless { ssl_fc }

`

const haproxyRouting = `    # Route backend services (API, OAuth, FHIR, health)
    acl is_backend path_beg /api /fhir /oauth2 /login /consent /.well-known /health
    use_backend backend-fhir-server if is_backend

    # Default: route to frontend Admin UI
    default_backend backend-fhir-admin

backend backend-fhir-admin
    balance roundrobin
    option httpchk HEAD /
    server frontend fhir-admin:80 check

backend backend-fhir-server
    balance roundrobin
    option httpchk GET /health
    server backend fhir-server:8080 check
`

// GenerateHAProxyConfig renders the load-balancer config routing API paths
// to the FHIR server and everything else to the admin UI.
func GenerateHAProxyConfig(config *Config) string {
	var builder strings.Builder
	builder.WriteString(strings.Replace(haproxyHeader, "%TIMESTAMP%", time.Now().Format("2006-01-02 15:04:05"), 1))
	if config.Deploy.TLS.Enabled {
		builder.WriteString(haproxyTLSBind)
	}
	builder.WriteString(haproxyRouting)
	return builder.String()
}
