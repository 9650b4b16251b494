// internal/workers/claims/view-claim/handler.go
package viewclaim

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
	TaskType = "view-claim"
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

// execute selects the claim for the detail panel. An unknown id leaves the
// previous selection in place and reports it.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := h.activities.ValidateInput(TaskType, input); err != nil {
		return nil, err
	}
	if !input.Close && input.ClaimID == "" {
		return nil, apperrors.NewInvalidJobInputError("claimId is required unless close is set")
	}

	sess, err := h.sessions.Get(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if input.Close {
		sess.Claims.ClearSelection()
		return &Output{Found: false, Reason: "selection cleared"}, nil
	}

	claim, err := sess.Claims.SelectForDetail(ctx, input.ClaimID)
	var notFound *apperrors.NotFoundError
	if errors.As(err, &notFound) {
		out := &Output{Found: false, Reason: notFound.Error()}
		selected, ok, err := sess.Claims.Selected(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			out.SelectedID = selected.ID
		}
		return out, nil
	}
	if err != nil {
		return nil, err
	}

	row := sess.Claims.Row(claim)
	return &Output{Found: true, Claim: &claim, Row: &row, SelectedID: claim.ID}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
