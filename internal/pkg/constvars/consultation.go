package constvars

import "time"

const (
	// JoinWindowGrace is applied on both sides of the scheduled slot:
	// joins are allowed from scheduled_at-grace until scheduled_at+duration+grace.
	JoinWindowGrace = 15 * time.Minute

	// CallTokenTTL is the fixed lifetime of an issued RTC token. Tokens are
	// self-expiring; there is no revocation path.
	CallTokenTTL = 2 * time.Hour

	// Agora uids are fixed per role so both sides always get stable,
	// distinct identities inside the channel.
	AgoraUIDPatient    uint32 = 1
	AgoraUIDPharmacist uint32 = 2
)

const (
	ConsultationCurrency = "INR"

	RatingMin = 1
	RatingMax = 5
)

// AllowedDurationsMinutes is the fixed set of bookable consultation lengths.
var AllowedDurationsMinutes = []int{15, 30, 45, 60}

const (
	CaptureLockKeyFormat  = "consultation:capture-lock:%s"
	CaptureLockExpiration = 10 * time.Second

	SessionKeyFormat = "session:%s"
)

const (
	NotificationEventConfirmed = "consultation.confirmed"
	NotificationEventCancelled = "consultation.cancelled"
	NotificationEventRefunded  = "consultation.refunded"
)

const (
	MongoCollectionConsultations = "consultations"
	MongoCollectionReviews       = "consultation_reviews"
	MongoCollectionPharmacists   = "pharmacists"

	AgoraChannelFormat = "consult-%s"
)
