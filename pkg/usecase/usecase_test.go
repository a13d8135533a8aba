package usecase_test

import (
	"testing"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/infra"
	"github.com/devstudio-sec/devscan/pkg/usecase"
)

func TestNew(t *testing.T) {
	t.Run("create new usecase with default clients", func(t *testing.T) {
		uc := usecase.New(infra.New())

		var _ interfaces.UseCase = uc
		_ = uc.RunScan
		_ = uc.PushNotification
	})

	t.Run("options are accepted", func(t *testing.T) {
		_ = usecase.New(infra.New(),
			usecase.WithWorkspaceDir(t.TempDir()),
			usecase.WithScanTimeout(0),
			usecase.WithMaxConcurrentScans(0),
		)
	})
}
