package consultations

import (
	"context"
	"fmt"
	"net/http"
	"pharmacare-service/internal/app/contracts"
	"pharmacare-service/internal/app/models"
	"pharmacare-service/internal/pkg/constvars"
	"pharmacare-service/internal/pkg/dto/requests"
	"pharmacare-service/internal/pkg/exceptions"
	"pharmacare-service/internal/pkg/utils"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type ConsultationController struct {
	Log                 *zap.Logger
	BookingUsecase      contracts.BookingUsecase
	LifecycleUsecase    contracts.LifecycleUsecase
	CancellationUsecase contracts.CancellationUsecase
}

func NewConsultationController(
	logger *zap.Logger,
	bookingUsecase contracts.BookingUsecase,
	lifecycleUsecase contracts.LifecycleUsecase,
	cancellationUsecase contracts.CancellationUsecase,
) *ConsultationController {
	return &ConsultationController{
		Log:                 logger,
		BookingUsecase:      bookingUsecase,
		LifecycleUsecase:    lifecycleUsecase,
		CancellationUsecase: cancellationUsecase,
	}
}

func (ctrl *ConsultationController) BookConsultation(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFromContext(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.BookConsultation)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	response, err := ctrl.BookingUsecase.BookConsultation(ctx, session, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.BookConsultationSuccessMessage, response)
}

func (ctrl *ConsultationController) GetConsultation(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFromContext(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	consultationID := chi.URLParam(r, constvars.URLParamConsultationID)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.BookingUsecase.GetConsultation(ctx, session, consultationID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetConsultationSuccessMessage, response)
}

func (ctrl *ConsultationController) ListConsultations(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFromContext(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(r.URL.Query().Get("page_size"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	consultations, total, err := ctrl.BookingUsecase.ListConsultations(ctx, session, page, pageSize)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	baseURL := fmt.Sprintf("%s://%s%s", schemeOf(r), r.Host, r.URL.Path)
	pagination := utils.BuildPaginationResponse(total, page, pageSize, baseURL)
	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.ListConsultationsSuccessMessage, pagination, consultations)
}

func (ctrl *ConsultationController) ConfirmConsultation(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFromContext(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	consultationID := chi.URLParam(r, constvars.URLParamConsultationID)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.LifecycleUsecase.ConfirmConsultation(ctx, session, consultationID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ConfirmConsultationSuccess, response)
}

func (ctrl *ConsultationController) CompleteConsultation(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFromContext(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	consultationID := chi.URLParam(r, constvars.URLParamConsultationID)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.LifecycleUsecase.CompleteConsultation(ctx, session, consultationID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CompleteConsultationSuccess, response)
}

func (ctrl *ConsultationController) CancelConsultation(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFromContext(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	consultationID := chi.URLParam(r, constvars.URLParamConsultationID)

	request := new(requests.CancelConsultation)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	// Refund calls can be slow; give the coordinator more room than a read.
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	response, err := ctrl.CancellationUsecase.CancelConsultation(ctx, session, consultationID, request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CancelConsultationSuccessMessage, response)
}

func sessionFromContext(r *http.Request) (*models.Session, error) {
	session, ok := r.Context().Value(constvars.CONTEXT_SESSION_DATA_KEY).(*models.Session)
	if !ok || session == nil {
		return nil, exceptions.ErrSessionNotFound(nil)
	}
	return session, nil
}

func schemeOf(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
