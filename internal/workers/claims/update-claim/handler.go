// internal/workers/claims/update-claim/handler.go
package updateclaim

import (
	"context"
	"encoding/json"
	"errors"

	"claims-registry/internal/claims/registry"
	"claims-registry/internal/common/camunda"
	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/common/logger"
	activity "claims-registry/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "update-claim"
)

type Handler struct {
	config       *Config
	sessions     *registry.Manager
	activities   *activity.ActivityRegistry
	errorHandler *apperrors.ErrorHandler
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

// execute replaces the claim. An unknown id completes the job with found
// false; invalid records and refused transitions fail it.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := h.activities.ValidateInput(TaskType, input); err != nil {
		return nil, err
	}

	sess, err := h.sessions.Get(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	updated, err := sess.Claims.UpdateRecord(ctx, input.ClaimID, input.Claim)
	var notFound *apperrors.NotFoundError
	if errors.As(err, &notFound) {
		h.logger.Info("claim to update not found", map[string]interface{}{
			"sessionId": input.SessionID,
			"claimId":   input.ClaimID,
		})
		return &Output{Found: false, Reason: notFound.Error()}, nil
	}
	if err != nil {
		return nil, err
	}

	row := sess.Claims.Row(updated)
	return &Output{Found: true, Claim: &updated, Row: &row}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
