package calls

import (
	"context"
	"net/http"
	"pharmacare-service/internal/app/contracts"
	"pharmacare-service/internal/app/models"
	"pharmacare-service/internal/pkg/constvars"
	"pharmacare-service/internal/pkg/exceptions"
	"pharmacare-service/internal/pkg/utils"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CallController struct {
	Log         *zap.Logger
	CallUsecase contracts.CallUsecase
}

func NewCallController(logger *zap.Logger, callUsecase contracts.CallUsecase) *CallController {
	return &CallController{
		Log:         logger,
		CallUsecase: callUsecase,
	}
}

func (ctrl *CallController) JoinCall(w http.ResponseWriter, r *http.Request) {
	session, ok := r.Context().Value(constvars.CONTEXT_SESSION_DATA_KEY).(*models.Session)
	if !ok || session == nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrSessionNotFound(nil))
		return
	}
	consultationID := chi.URLParam(r, constvars.URLParamConsultationID)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.CallUsecase.JoinCall(ctx, session, consultationID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.JoinCallSuccessMessage, response)
}
