package config

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/repository/firestore"
)

type Firestore struct {
	projectID  string
	databaseID string
}

func (x *Firestore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore project ID of the notification store (optional)",
			Category:    "Firestore",
			Sources:     cli.EnvVars("DEVSCAN_FIRESTORE_PROJECT_ID"),
			Destination: &x.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore database ID",
			Category:    "Firestore",
			Sources:     cli.EnvVars("DEVSCAN_FIRESTORE_DATABASE_ID"),
			Value:       "(default)",
			Destination: &x.databaseID,
		},
	}
}

func (x *Firestore) Enabled() bool {
	return x.projectID != ""
}

func (x *Firestore) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("projectID", x.projectID),
		slog.Any("databaseID", x.databaseID),
	)
}

func (x *Firestore) NewRepository(ctx context.Context) (interfaces.NotificationRepository, error) {
	return firestore.New(ctx, x.projectID, x.databaseID)
}
