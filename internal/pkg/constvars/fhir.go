package constvars

const (
	ResourcePatient               = "Patient"
	ResourcePractitioner          = "Practitioner"
	ResourcePractitionerRole      = "PractitionerRole"
	ResourceLocation              = "Location"
	ResourceEncounter             = "Encounter"
	ResourceList                  = "List"
	ResourceQuestionnaire         = "Questionnaire"
	ResourceQuestionnaireResponse = "QuestionnaireResponse"
	ResourceObservation           = "Observation"
	ResourceCondition             = "Condition"
	ResourceProcedure             = "Procedure"
	ResourceCarePlan              = "CarePlan"
	ResourceServiceRequest        = "ServiceRequest"
	ResourceMedicationRequest     = "MedicationRequest"
	ResourceDocumentReference     = "DocumentReference"
	ResourceVisionPrescription    = "VisionPrescription"
	ResourceDiagnosticReport      = "DiagnosticReport"
	ResourceAllergyIntolerance    = "AllergyIntolerance"
	ResourceCommunication         = "Communication"
	ResourceComposition           = "Composition"
	ResourceDevice                = "Device"
	ResourceBundle                = "Bundle"
	ResourceOperationOutcome      = "OperationOutcome"
)

const (
	FhirBundleTypeTransaction         = "transaction"
	FhirBundleTypeBatch               = "batch"
	FhirBundleTypeCollection          = "collection"
	FhirBundleTypeSearchset           = "searchset"
	FhirBundleTypeTransactionResponse = "transaction-response"
	FhirBundleTypeBatchResponse       = "batch-response"
)

const (
	FhirEncounterStatusInProgress = "in-progress"
	FhirEncounterStatusFinished   = "finished"

	FhirEncounterClassSystem = "http://terminology.hl7.org/CodeSystem/v3-ActCode"
	FhirEncounterClassAMB    = "AMB"
)

const (
	FhirObservationStatusFinal  = "final"
	FhirListStatusCurrent       = "current"
	FhirListModeWorking         = "working"
	FhirQRStatusCompleted       = "completed"
	FhirLocationStatusActive    = "active"
	FhirRequestStatusActive     = "active"
	FhirRequestIntentOrder      = "order"
	FhirCommunicationCompleted  = "completed"
	FhirRequestIntentPlan       = "plan"
	FhirConditionClinicalSystem = "http://terminology.hl7.org/CodeSystem/condition-clinical"
	FhirConditionClinicalActive = "active"
	FhirConditionCategorySystem = "http://terminology.hl7.org/CodeSystem/condition-category"
	FhirAllergyClinicalSystem   = "http://terminology.hl7.org/CodeSystem/allergyintolerance-clinical"
	FhirLensProductSystem       = "http://terminology.hl7.org/CodeSystem/ex-visionprescriptionproduct"
	FhirLensProductLens         = "lens"
)

const (
	FhirSystemSNOMED            = "http://snomed.info/sct"
	FhirSystemLOINC             = "http://loinc.org"
	FhirSystemUCUM              = "http://unitsofmeasure.org"
	FhirSystemObservationCat    = "http://terminology.hl7.org/CodeSystem/observation-category"
	FhirSystemServiceCategory   = "http://terminology.hl7.org/CodeSystem/service-category"
	FhirSystemDiagnosticService = "http://terminology.hl7.org/CodeSystem/v2-0074"
)

// Body-site concepts shared by every per-eye resource.
const (
	SnomedRightEye = "1290032005"
	SnomedLeftEye  = "1290031003"
	SnomedBothEyes = "1290040004"
)

const (
	LoadtestIdentifierSystem = "urn:medblocks:loadtests:identifier"
)
