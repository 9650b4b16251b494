// internal/workers/providers/add-provider/handler.go
package addprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"claims-registry/internal/claims/registry"
	"claims-registry/internal/common/camunda"
	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/common/logger"
	"claims-registry/internal/common/notify"
	"claims-registry/internal/models"
	activity "claims-registry/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "add-provider"
)

type Handler struct {
	config       *Config
	sessions     *registry.Manager
	activities   *activity.ActivityRegistry
	notifier     notify.Notifier
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, sessions *registry.Manager, activities *activity.ActivityRegistry, notifier notify.Notifier, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		sessions:     sessions,
		activities:   activities,
		notifier:     notifier,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := h.activities.ValidateInput(TaskType, input); err != nil {
		return nil, err
	}

	sess, err := h.sessions.Get(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	dir := sess.Directory(input.ProviderType)
	if dir == nil {
		return nil, apperrors.NewInvalidJobInputError(fmt.Sprintf("unknown provider type %q", input.ProviderType))
	}

	entry, err := dir.Add(input.form())
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		h.logger.Info("provider rejected", map[string]interface{}{
			"sessionId": input.SessionID,
			"fields":    validationErr.FieldNames(),
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

	h.logger.Info("provider added", map[string]interface{}{
		"sessionId":    input.SessionID,
		"providerType": input.ProviderType,
		"providerId":   entry.ID,
	})
	h.announce(ctx, input, entry)

	return &Output{
		IsValid:          true,
		Provider:         &entry,
		ValidationErrors: []apperrors.FieldError{},
		Message:          fmt.Sprintf("%s has been added to the directory.", entry.Name),
	}, nil
}

// announce sends the success notification. Delivery failures are logged only.
func (h *Handler) announce(ctx context.Context, input *Input, entry models.ProviderEntry) {
	if !h.config.Notify || h.notifier == nil {
		return
	}
	title := "Insurance Provider Added"
	if input.ProviderType == models.ProviderHospital {
		title = "Hospital Added"
	}
	err := h.notifier.Notify(ctx, models.Notification{
		SessionID: input.SessionID,
		Title:     title,
		Message:   fmt.Sprintf("%s (%s) is now listed with %d claims.", entry.Name, entry.Location, entry.TotalClaims),
		Severity:  models.SeveritySuccess,
		Payload:   map[string]interface{}{"providerId": entry.ID, "providerType": string(input.ProviderType)},
	})
	if err != nil {
		h.logger.Warn("provider notification failed", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
