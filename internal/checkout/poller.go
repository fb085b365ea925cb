// Package checkout реализует подтверждение платёжной сессии с ограниченными ретраями.
package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sharifShaikh1/cravecrafters-frontend/internal/backend"
	"github.com/sharifShaikh1/cravecrafters-frontend/internal/model"
)

// ErrEmptySessionRef возвращается при попытке подтвердить пустую платёжную сессию.
var ErrEmptySessionRef = errors.New("empty session reference")

// ConfirmClient описывает контракт вызова подтверждения платежа на бэкенде.
type ConfirmClient interface {
	ConfirmPayment(ctx context.Context, token, sessionID string) (*backend.ConfirmResult, error)
}

const (
	defaultMaxAttempts    = 3
	defaultAttemptTimeout = 10 * time.Second
	defaultRetryDelay     = 2 * time.Second

	// profileRedirectPath — куда отправить пользователя при неполном профиле.
	profileRedirectPath = "/update-profile"

	exhaustedDetail = "max retries exceeded, contact support"
)

// Poller выполняет цепочку попыток подтверждения платежа для платёжной сессии.
//
// Для одной сессии одновременно выполняется не более одной цепочки:
// конкурентные вызовы с тем же идентификатором присоединяются к уже идущей
// цепочке, а успешно подтверждённая сессия запоминается и повторно не
// подтверждается.
type Poller struct {
	client ConfirmClient
	logger *zap.Logger

	maxAttempts    int
	attemptTimeout time.Duration
	retryDelay     time.Duration

	group singleflight.Group

	mu       sync.Mutex
	resolved map[string]model.ConfirmationAttempt
}

// NewPoller создаёт Poller с параметрами по умолчанию: 3 попытки,
// таймаут 10 секунд на попытку, пауза 2 секунды между попытками.
func NewPoller(client ConfirmClient, logger *zap.Logger) *Poller {
	return &Poller{
		client:         client,
		logger:         logger,
		maxAttempts:    defaultMaxAttempts,
		attemptTimeout: defaultAttemptTimeout,
		retryDelay:     defaultRetryDelay,
		resolved:       make(map[string]model.ConfirmationAttempt),
	}
}

// Confirm выполняет подтверждение платёжной сессии и возвращает терминальную попытку.
// Токен передаётся явно и не читается из глобального состояния.
func (p *Poller) Confirm(ctx context.Context, token, sessionID string) (model.ConfirmationAttempt, error) {
	if strings.TrimSpace(sessionID) == "" {
		return model.ConfirmationAttempt{}, ErrEmptySessionRef
	}

	if attempt, ok := p.alreadyResolved(sessionID); ok {
		return attempt, nil
	}

	v, err, _ := p.group.Do(sessionID, func() (interface{}, error) {
		return p.run(ctx, token, sessionID), nil
	})
	if err != nil {
		return model.ConfirmationAttempt{}, err
	}

	attempt := v.(model.ConfirmationAttempt)

	if attempt.Outcome == model.OutcomeSuccess {
		p.mu.Lock()
		p.resolved[sessionID] = attempt
		p.mu.Unlock()
	}

	return attempt, nil
}

func (p *Poller) alreadyResolved(sessionID string) (model.ConfirmationAttempt, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	attempt, ok := p.resolved[sessionID]
	return attempt, ok
}

// run выполняет до maxAttempts последовательных попыток подтверждения.
// Попытки строго последовательны: следующая не начинается, пока не известен
// исход предыдущей.
func (p *Poller) run(ctx context.Context, token, sessionID string) model.ConfirmationAttempt {
	var last model.ConfirmationAttempt
	attempt := 0

	backoff := retry.WithMaxRetries(uint64(p.maxAttempts-1), retry.NewConstant(p.retryDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		callCtx, cancel := context.WithTimeout(ctx, p.attemptTimeout)
		defer cancel()

		res, err := p.client.ConfirmPayment(callCtx, token, sessionID)
		if err != nil {
			if isMissingPrecondition(err) {
				last = model.ConfirmationAttempt{
					Attempt:     attempt,
					Outcome:     model.OutcomeFatalFailure,
					Detail:      err.Error(),
					RedirectURL: profileRedirectPath,
				}
				return err
			}

			p.logger.Warn("payment confirmation attempt failed",
				zap.String("session", sessionID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)

			last = model.ConfirmationAttempt{
				Attempt: attempt,
				Outcome: model.OutcomeRecoverableFailure,
				Detail:  err.Error(),
			}
			return retry.RetryableError(err)
		}

		last = model.ConfirmationAttempt{
			Attempt:     attempt,
			Outcome:     model.OutcomeSuccess,
			Detail:      res.Message,
			RedirectURL: res.RedirectURL,
		}
		return nil
	})

	if err != nil && last.Outcome == model.OutcomeRecoverableFailure && attempt == p.maxAttempts {
		last.Detail = exhaustedDetail
	}

	return last
}

// isMissingPrecondition распознаёт фатальный отказ бэкенда из-за незаполненного
// профиля. Бэкенд не отдаёт структурированный код ошибки, поэтому проверяется
// подстрока "address" в тексте сообщения.
func isMissingPrecondition(err error) bool {
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == 400 && strings.Contains(apiErr.Message, "address")
}
