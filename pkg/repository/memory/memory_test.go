package memory_test

import (
	"testing"

	"github.com/devstudio-sec/devscan/pkg/repository/memory"
	"github.com/devstudio-sec/devscan/pkg/repository/testhelper"
)

func TestMemoryNotificationRepository(t *testing.T) {
	testhelper.TestAll(t, memory.New())
}
