package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"claims-registry/internal/common/config"
	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() *RetryConfig {
	return &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

// ==========================
// Retry Tests
// ==========================

func TestRetry_SucceedsAfterTransientErrors(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry(), "complete-job", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("rpc error: code = Unavailable")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry(), "complete-job", func(ctx context.Context) error {
		calls++
		return errors.New("job not found")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInternal))
}

func TestRetry_ExhaustsRetries(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry(), "topology", func(ctx context.Context) error {
		calls++
		return errors.New("context deadline exceeded")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeEngineTimeout))
}

func TestRetry_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, &RetryConfig{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: time.Second}, "complete-job",
		func(ctx context.Context) error { return errors.New("connection refused") })

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMapZeebeError(t *testing.T) {
	tests := []struct {
		msg  string
		code apperrors.ErrorCode
	}{
		{"dial tcp: connection refused", apperrors.ErrCodeEngineUnavailable},
		{"rpc error: code = Unavailable", apperrors.ErrCodeEngineUnavailable},
		{"request timeout", apperrors.ErrCodeEngineTimeout},
		{"permission denied", apperrors.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			err := MapZeebeError(errors.New(tt.msg), "op", 1)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.CamundaConfig{BrokerAddress: "zeebe:26500", RequestTimeout: 1500, Insecure: true})

	assert.Equal(t, "zeebe:26500", cfg.GatewayAddress)
	assert.True(t, cfg.UsePlaintextConnection)
	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
	assert.Same(t, DefaultRetryConfig, cfg.RetryConfig)
}

// ==========================
// Instrumentation Tests
// ==========================

func TestInstrument_CallsHandler(t *testing.T) {
	var seen int64
	h := JobHandlerFunc(func(client worker.JobClient, job entities.Job) error {
		seen = job.Key
		return nil
	})

	Instrument("test-task", h, logger.NewTestLogger(t), nil)(nil, entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 42}})
	assert.Equal(t, int64(42), seen)
}

func TestInstrument_RecordsFailure(t *testing.T) {
	called := false
	h := JobHandlerFunc(func(client worker.JobClient, job entities.Job) error {
		called = true
		return apperrors.NewClaimNotFoundError("CLM-1")
	})

	assert.NotPanics(t, func() {
		Instrument("test-task", h, logger.NewTestLogger(t), nil)(nil, entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 7}})
	})
	assert.True(t, called)
}
