package config

import (
	"context"
	"log/slog"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/impersonate"
	"google.golang.org/api/option"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/infra/bq"
)

type BigQuery struct {
	projectID      string
	datasetID      string
	tableID        string
	impersonateSvc string
}

func (x *BigQuery) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bigquery-project-id",
			Usage:       "BigQuery project ID of the scan record table (optional)",
			Category:    "BigQuery",
			Sources:     cli.EnvVars("DEVSCAN_BIGQUERY_PROJECT_ID"),
			Destination: &x.projectID,
		},
		&cli.StringFlag{
			Name:        "bigquery-dataset-id",
			Usage:       "BigQuery dataset ID",
			Category:    "BigQuery",
			Sources:     cli.EnvVars("DEVSCAN_BIGQUERY_DATASET_ID"),
			Destination: &x.datasetID,
		},
		&cli.StringFlag{
			Name:        "bigquery-table-id",
			Usage:       "BigQuery table ID",
			Category:    "BigQuery",
			Value:       "scans",
			Sources:     cli.EnvVars("DEVSCAN_BIGQUERY_TABLE_ID"),
			Destination: &x.tableID,
		},
		&cli.StringFlag{
			Name:        "bigquery-impersonate-service-account",
			Usage:       "Service account to impersonate for BigQuery",
			Category:    "BigQuery",
			Sources:     cli.EnvVars("DEVSCAN_BIGQUERY_IMPERSONATE_SERVICE_ACCOUNT"),
			Destination: &x.impersonateSvc,
		},
	}
}

func (x *BigQuery) Enabled() bool {
	return x.projectID != ""
}

func (x *BigQuery) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("ProjectID", x.projectID),
		slog.String("DatasetID", x.datasetID),
		slog.String("TableID", x.tableID),
		slog.String("ImpersonateServiceAccount", x.impersonateSvc),
	)
}

// NewClient returns nil without an error if BigQuery is not configured.
func (x *BigQuery) NewClient(ctx context.Context) (interfaces.BigQuery, error) {
	if !x.Enabled() {
		return nil, nil
	}
	if x.datasetID == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "BigQuery dataset ID is required when project ID is set")
	}

	var options []option.ClientOption
	if x.impersonateSvc != "" {
		ts, err := impersonate.CredentialsTokenSource(ctx, impersonate.CredentialsConfig{
			TargetPrincipal: x.impersonateSvc,
			Scopes: []string{
				bigquery.Scope,
				"https://www.googleapis.com/auth/cloud-platform",
			},
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create impersonated token source",
				goerr.V("service_account", x.impersonateSvc),
			)
		}
		options = append(options, option.WithTokenSource(ts))
	}

	client, err := bq.New(ctx,
		types.GoogleProjectID(x.projectID),
		types.BQDatasetID(x.datasetID),
		types.BQTableID(x.tableID),
		options...,
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}
