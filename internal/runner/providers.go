package runner

import (
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tzwzx/check-all-go/internal/config"
)

// Module provides all runner dependencies for fx injection.
var Module = fx.Module("runner",
	fx.Provide(
		ProvideRunner,
		NewExecutor,
	),
)

// ProvideRunner assembles a Runner from its injected dependencies.
func ProvideRunner(
	cfg *config.Config,
	log *zap.Logger,
	executor *Executor,
) *Runner {
	return &Runner{
		cfg:      cfg,
		log:      log,
		executor: executor,
		out:      os.Stdout,
	}
}
