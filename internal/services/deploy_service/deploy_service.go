package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"photofolio/internal/lib/logger/sl"
)

var ErrHookNotConfigured = errors.New("deploy hook is not configured")

// DeployService дёргает внешний deploy hook (Cloudflare Pages),
// запускающий пересборку сайта после правок галереи.
type DeployService struct {
	log     *slog.Logger
	hookURL string
	client  *http.Client
}

func NewDeployService(log *slog.Logger, hookURL string, timeout time.Duration) *DeployService {
	return &DeployService{
		log:     log,
		hookURL: hookURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *DeployService) TriggerDeploy(ctx context.Context) error {
	const op = "deploy_service.TriggerDeploy"

	log := s.log.With(slog.String("op", op))

	if s.hookURL == "" {
		return ErrHookNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.hookURL, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		log.Error("deploy hook request failed", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("deploy hook rejected",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)))
		return fmt.Errorf("%s: failed to trigger deployment: %s", op, resp.Status)
	}

	log.Info("deployment triggered")

	return nil
}
