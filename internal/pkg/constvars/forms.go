package constvars

// Every clinical form stamps its resources with this tag system so the
// whole graph can be recovered by a _tag search when the List anchor
// search comes back empty.
const FormTagSystem = "https://medblocks.dev/fhir/form"

const (
	FormCodeComplaints   = "complaints"
	FormCodeHistory      = "treatment_history"
	FormCodeSubjective   = "subjective_refraction"
	FormCodeScreening    = "screening"
	FormCodeIOP          = "iop"
	FormCodeAutoRef      = "auto-refractometer"
	FormCodeAScan        = "a_scan"
	FormCodeAnterior     = "anterior_chamber"
	FormCodePosterior    = "posterior_chamber"
	FormCodeLab          = "lab"
	FormCodeFreeText     = "free_text"
	FormCodeDrugs        = "drug_prescription"
	FormCodeGlasses      = "glass_prescription"
	FormCodePGP          = "pgp"
	FormCodeReferral     = "referral"
	FormCodeSurgicalNote = "surgical_notes"
)

// Local code systems mirroring what the charting frontend writes.
const (
	MedblocksObservationCategorySystem = "https://medblocks.dev/fhir/CodeSystem/observation-category"
	IOPMethodSystem                    = "http://terminology.medblocks.com/iop/method"
	IOPDuctSystem                      = "http://terminology.medblocks.com/iop/duct"
	ExaminationFindingsSystem          = "http://terminology.medblocks.com/Valueset/examination-findings-system"
	RefractionMethodSystem             = "http://terminology.medblocks.com/Valueset/refraction-general-method"
	AScanCodeSystem                    = "https://medblocks.dev/fhir/CodeSystem/ascan-measurement"
	AScanMethodSystem                  = "https://medblocks.dev/fhir/CodeSystem/ascan-method"
)

// LOINC IOP codes per eye.
const (
	LoincIOPRight = "8716-3"
	LoincIOPLeft  = "8717-1"
	LoincCCT      = "1032703"
)

// LOINC panels queried by the patient summary.
const (
	LoincRefraction         = "9780-8,9781-6,17634-2,17635-9,9827-0,9828-8"
	LoincIOP                = "8716-3,8717-1"
	LoincSpO2               = "59408-5,2708-6"
	LoincHeartRate          = "8867-4"
	LoincBloodPressurePanel = "85354-9"
	LoincSystolicBP         = "8480-6"
	LoincDiastolicBP        = "8462-4"
)
