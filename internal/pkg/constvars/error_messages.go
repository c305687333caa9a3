package constvars

// Client-facing messages. Kept deliberately generic except where the user
// genuinely needs to act on the detail (refund failure in particular).
const (
	ErrClientCannotProcessRequest          = "We cannot process your request, please try again"
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application, please try again later"
	ErrClientNotAuthorized                 = "You are not authorized to perform this action"
	ErrClientNotLoggedIn                   = "You are not logged in, please log in first"
	ErrClientServerLongRespond             = "The server took too long to respond, please try again"

	ErrClientPharmacistNotFound       = "The selected pharmacist is not available for booking"
	ErrClientPharmacistNotApproved    = "The selected pharmacist is not approved for consultations"
	ErrClientPharmacistNotAvailable   = "The selected pharmacist is not accepting consultations right now"
	ErrClientCannotBookSelf           = "You cannot book a consultation with yourself"
	ErrClientScheduleMustBeFuture     = "The consultation must be scheduled for a future time"
	ErrClientInvalidDuration          = "The selected consultation duration is not supported"
	ErrClientConsultationNotFound     = "Consultation not found"
	ErrClientNotParticipant           = "You are not a participant of this consultation"
	ErrClientPaymentGatewayFailure    = "The payment service is currently unavailable, please try again"
	ErrClientSignatureMismatch        = "Payment verification failed"
	ErrClientPaymentNotCompleted      = "The payment has not been completed"
	ErrClientPaymentAmountMismatch    = "Payment verification failed"
	ErrClientJoinTooEarly             = "The consultation has not started yet, please join closer to the scheduled time"
	ErrClientJoinTimePassed           = "The consultation time window has passed"
	ErrClientCallNotPaid              = "The consultation payment has not been captured yet"
	ErrClientNotJoinableState         = "This consultation cannot be joined in its current state"
	ErrClientNotConfirmableState      = "This consultation cannot be confirmed in its current state"
	ErrClientNotCompletableState      = "This consultation cannot be completed in its current state"
	ErrClientAlreadyFinished          = "This consultation has already been completed or cancelled"
	ErrClientRefundFailedStillBooked  = "The refund could not be processed. Your booking is still active and no money has moved; please try cancelling again"
	ErrClientReviewNotCompleted       = "You can only review a completed consultation"
	ErrClientAlreadyReviewed          = "You have already reviewed this consultation"
	ErrClientOnlyPatientCanReview     = "Only the patient can review this consultation"
	ErrClientOnlyPatientCanVerify     = "Only the patient can verify this payment"
	ErrClientOnlyPharmacist           = "Only the assigned pharmacist can perform this action"
)

// Dev-facing messages, logged server-side and shown only outside production.
const (
	ErrDevValidationFailed           = "Request validation failed"
	ErrDevCannotParseJSON            = "Failed to parse JSON request body"
	ErrDevCannotMarshalJSON          = "Failed to marshal value to JSON"
	ErrDevCannotReadRequestBody      = "Failed to read raw request body"
	ErrDevServerDeadlineExceeded     = "Context deadline exceeded"
	ErrDevAuthTokenMissing           = "Authorization header missing"
	ErrDevAuthTokenInvalidOrExpired  = "Auth token invalid or expired"
	ErrDevAuthSigningMethod          = "Unexpected JWT signing method"
	ErrDevSessionNotFound            = "Session data not found in redis"
	ErrDevMongoDBFindDocument        = "MongoDB failed to find document"
	ErrDevMongoDBInsertDocument      = "MongoDB failed to insert document"
	ErrDevMongoDBUpdateDocument      = "MongoDB failed to update document"
	ErrDevMongoDBDeleteDocument      = "MongoDB failed to delete document"
	ErrDevMongoDBIndexCreation       = "MongoDB failed to create index"
	ErrDevRedisSetData               = "Redis failed to set data"
	ErrDevRedisGetData               = "Redis failed to get data"
	ErrDevRedisDeleteData            = "Redis failed to delete data"
	ErrDevRedisUnlock                = "Redis failed to release lock"
	ErrDevRabbitMQPublish            = "RabbitMQ failed to publish message: queue %s"
	ErrDevGatewayCreateOrder         = "Razorpay order create failed"
	ErrDevGatewayFetchPayment        = "Razorpay payment fetch failed"
	ErrDevGatewayRefund              = "Razorpay refund create failed"
	ErrDevWebhookSignatureMismatch   = "Webhook body signature does not match"
	ErrDevCheckoutSignatureMismatch  = "Checkout signature does not match"
	ErrDevOrderIDMismatch            = "Supplied order id does not match the consultation's stored order id"
	ErrDevWebhookOrderUnknown        = "No consultation matches the webhook order id"
	ErrDevPaymentUnexpectedStatus    = "Gateway reports payment in unexpected status"
	ErrDevPaymentAmountMismatch      = "Gateway payment amount does not match consultation amount"
	ErrDevConsultationStateConflict  = "Consultation is not in a valid state for this transition"
	ErrDevReviewDuplicate            = "Review already exists for this consultation"
	ErrDevCallTokenBuild             = "Failed to build RTC token"
	ErrDevOrphanGatewayOrder         = "Gateway order created but local write-back failed; order is orphaned"
	ErrDevBookingRollbackFailed      = "Best-effort rollback of pending consultation failed"
	ErrDevPharmacistLookup           = "Pharmacist lookup failed"
)
