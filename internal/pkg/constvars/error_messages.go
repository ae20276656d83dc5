package constvars

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "cannot process request, please check your request"
	ErrClientSomethingWrongWithApplication = "something wrong with the application, please contact our admin"
	ErrClientFHIRServerRejected            = "the FHIR server rejected the request"
	ErrClientNotAuthorized                 = "you are not authorized"
	ErrClientInvalidConfiguration          = "invalid configuration, please check your environment"
)

// Error messages for developers
const (
	ErrDevCannotMarshalJSON          = "failed to marshal request payload to JSON"
	ErrDevCannotParseJSON            = "failed to parse JSON response body"
	ErrDevCreateHTTPRequest          = "failed to create HTTP request"
	ErrDevSendHTTPRequest            = "failed to send HTTP request"
	ErrDevReadResponseBody           = "failed to read HTTP response body"
	ErrDevFHIRCallFailed             = "FHIR call %s returned an error response"
	ErrDevDecodeFHIRResourceResponse = "failed to decode %s response from FHIR server"
	ErrDevFHIRResourceNotFound       = "no %s found on FHIR server"
	ErrDevTokenEndpointRequest       = "failed to obtain access token from token endpoint"
	ErrDevTokenEndpointRejected      = "token endpoint returned status %d"
	ErrDevMissingAuthConfiguration   = "no bearer token and no client credentials configured"
	ErrDevRabbitMQPublishMessage     = "failed to publish message to queue %s"
	ErrDevMinioFailedToCreateObject  = "failed to create object in bucket %s"
	ErrDevConfigMissingKey           = "required configuration key %s is missing"
	ErrDevConfigInvalidYAML          = "failed to parse YAML configuration"
	ErrDevConfigValidation           = "configuration failed validation"
)
