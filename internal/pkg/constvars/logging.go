package constvars

const (
	LoggingMetricKey         = "metric"
	LoggingMethodKey         = "method"
	LoggingURLKey            = "url"
	LoggingStatusCodeKey     = "status_code"
	LoggingElapsedKey        = "elapsed"
	LoggingDetailKey         = "detail"
	LoggingResponseLengthKey = "response_length"
	LoggingUserKey           = "user"
	LoggingFlowKey           = "flow"
	LoggingFormKey           = "form"
	LoggingPatientIDKey      = "patient_id"
	LoggingEncounterIDKey    = "encounter_id"
	LoggingPractitionerIDKey = "practitioner_id"
	LoggingLocationIDKey     = "location_id"
)
