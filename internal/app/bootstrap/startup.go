// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/ministryhub/internal/app/store/remote"
	"github.com/dalemusser/ministryhub/internal/app/system/confirm"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
//
// When migrate_confirmations is set, legacy attendance entries are
// copied into the shared store here, so the migrated flags are already
// live when the first request arrives. The legacy blob is left in place;
// migration can run again safely because the composite keys match.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if !appCfg.MigrateConfirmations {
		return nil
	}

	legacy := confirm.NewLegacy(appCfg.ConfirmationsBlobPath, logger)
	gw := remote.NewMongoGateway(deps.MongoDatabase, logger)

	n, err := confirm.MigrateLegacy(ctx, legacy, gw, logger)
	if err != nil {
		return err
	}
	logger.Info("migrated legacy attendance entries", zap.Int("count", n))
	return nil
}
