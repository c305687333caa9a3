package exceptions

import (
	"fmt"
	"pharmacare-service/internal/pkg/constvars"
)

var (
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, FormatFirstValidationError(err), constvars.ErrDevValidationFailed)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON)
	}
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseJSON)
	}
	ErrCannotReadRequestBody = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotReadRequestBody)
	}
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded)
	}

	// Auth
	ErrTokenMissing = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenMissing)
	}
	ErrTokenInvalidOrExpired = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenInvalidOrExpired)
	}
	ErrSessionNotFound = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevSessionNotFound)
	}
	ErrNotParticipant = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusForbidden, constvars.ErrClientNotParticipant, constvars.ErrDevConsultationStateConflict)
	}
	ErrForbidden = func(clientMessage string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusForbidden, clientMessage, constvars.ErrDevConsultationStateConflict)
	}

	// Booking
	ErrPharmacistNotFound = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientPharmacistNotFound, constvars.ErrDevPharmacistLookup)
	}
	ErrPharmacistNotApproved = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientPharmacistNotApproved, constvars.ErrDevPharmacistLookup)
	}
	ErrPharmacistNotAvailable = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientPharmacistNotAvailable, constvars.ErrDevPharmacistLookup)
	}
	ErrCannotBookSelf = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientCannotBookSelf, constvars.ErrDevValidationFailed)
	}
	ErrScheduleMustBeFuture = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientScheduleMustBeFuture, constvars.ErrDevValidationFailed)
	}

	// Consultation state
	ErrConsultationNotFound = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientConsultationNotFound, constvars.ErrDevMongoDBFindDocument)
	}
	ErrWebhookOrderUnknown = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientConsultationNotFound, constvars.ErrDevWebhookOrderUnknown)
	}
	ErrStateConflict = func(clientMessage string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, clientMessage, constvars.ErrDevConsultationStateConflict)
	}

	// Payment
	ErrSignatureMismatch = func() *CustomError {
		// One opaque client message regardless of which part mismatched.
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientSignatureMismatch, constvars.ErrDevCheckoutSignatureMismatch)
	}
	ErrWebhookSignatureMismatch = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientSignatureMismatch, constvars.ErrDevWebhookSignatureMismatch)
	}
	ErrOrderMismatch = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientSignatureMismatch, constvars.ErrDevOrderIDMismatch)
	}
	ErrPaymentNotCompleted = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusPaymentRequired, constvars.ErrClientPaymentNotCompleted, constvars.ErrDevPaymentUnexpectedStatus)
	}
	ErrPaymentAmountMismatch = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientPaymentAmountMismatch, constvars.ErrDevPaymentAmountMismatch)
	}
	ErrGatewayCreateOrder = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientPaymentGatewayFailure, constvars.ErrDevGatewayCreateOrder)
	}
	ErrGatewayFetchPayment = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientPaymentGatewayFailure, constvars.ErrDevGatewayFetchPayment)
	}
	ErrRefundFailed = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientRefundFailedStillBooked, constvars.ErrDevGatewayRefund)
	}

	// Call access
	ErrJoinTooEarly = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientJoinTooEarly, constvars.ErrDevConsultationStateConflict)
	}
	ErrJoinTimePassed = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientJoinTimePassed, constvars.ErrDevConsultationStateConflict)
	}
	ErrCallNotPaid = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientCallNotPaid, constvars.ErrDevConsultationStateConflict)
	}
	ErrCallTokenBuild = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCallTokenBuild)
	}

	// Review
	ErrAlreadyReviewed = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusConflict, constvars.ErrClientAlreadyReviewed, constvars.ErrDevReviewDuplicate)
	}

	// MongoDB
	ErrMongoDBFindDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMongoDBFindDocument)
	}
	ErrMongoDBInsertDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMongoDBInsertDocument)
	}
	ErrMongoDBUpdateDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMongoDBUpdateDocument)
	}
	ErrMongoDBDeleteDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMongoDBDeleteDocument)
	}
	ErrMongoDBIndexCreation = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMongoDBIndexCreation)
	}

	// Redis
	ErrRedisSet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisSetData)
	}
	ErrRedisGet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisGetData)
	}
	ErrRedisDelete = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisDeleteData)
	}
	ErrRedisUnlock = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisUnlock)
	}

	// RabbitMQ
	ErrRabbitMQPublishMessage = func(err error, queueName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRabbitMQPublish, queueName))
	}
)
