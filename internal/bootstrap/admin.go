package bootstrap

import (
	"context"
	"errors"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/yoraldineaminah-commits/version20/internal/service"
)

// EnsureAdmin creates the default admin account at startup if missing.
// A previous run having created it already is the expected steady state
// and is not an error.
func EnsureAdmin(lc fx.Lifecycle, accounts *service.AccountService, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return ensureAdmin(ctx, accounts, logger)
		},
	})
}

func ensureAdmin(ctx context.Context, accounts *service.AccountService, logger *zap.Logger) error {
	view, err := accounts.InitDefaultAdmin(ctx)
	if errors.Is(err, service.ErrEmailExists) {
		logger.Debug("bootstrap admin already present")
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("bootstrap admin user created",
		zap.String("email", view.Email),
		zap.Int64("user_id", view.ID),
	)
	return nil
}
