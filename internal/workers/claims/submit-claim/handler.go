// internal/workers/claims/submit-claim/handler.go
package submitclaim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"claims-registry/internal/claims/registry"
	"claims-registry/internal/common/camunda"
	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/common/logger"
	"claims-registry/internal/common/observability"
	activity "claims-registry/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "submit-claim"
)

type Handler struct {
	config       *Config
	sessions     *registry.Manager
	activities   *activity.ActivityRegistry
	errorHandler *apperrors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
}

func NewHandler(config *Config, sessions *registry.Manager, activities *activity.ActivityRegistry, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		sessions:     sessions,
		activities:   activities,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

// WithObservability records accepted claim amounts on obs.
func (h *Handler) WithObservability(obs *observability.Observability) *Handler {
	h.obs = obs
	return h
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		err = apperrors.NewInvalidJobInputError(err.Error())
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return err
	}
	return camunda.CompleteJob(ctx, client, job, output)
}

// execute stores the claim. A rejected form is a normal outcome with
// isValid false, not a job failure.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := h.activities.ValidateInput(TaskType, input); err != nil {
		return nil, err
	}

	sess, err := h.sessions.Get(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	claim, err := sess.Claims.AddRecord(ctx, input.Claim)
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		h.logger.Info("claim rejected", map[string]interface{}{
			"sessionId":  input.SessionID,
			"errorCount": len(validationErr.Fields),
			"fields":     validationErr.FieldNames(),
		})
		return &Output{
			IsValid:          false,
			ValidationErrors: validationErr.Fields,
			Message:          "Please correct the highlighted fields and submit again.",
		}, nil
	}
	if err != nil {
		return nil, err
	}

	h.obs.RecordClaimSubmitted(ctx, string(claim.Kind), claim.Amount)

	row := sess.Claims.Row(claim)
	return &Output{
		IsValid:          true,
		Claim:            &claim,
		Row:              &row,
		ValidationErrors: []apperrors.FieldError{},
		Message:          fmt.Sprintf("Claim %s has been successfully submitted for review.", claim.ID),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
