package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_SESSION_DATA_KEY         ContextKey = "session_data"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	REQUEST_ID_PREFIX = "PHRM_SVC_"

	URLParamConsultationID = "consultationID"
)

const (
	RolePatient    = "patient"
	RolePharmacist = "pharmacist"
)

const (
	AppPaginationUrlFormat = "%s?page=%d&page_size=%d"
)
