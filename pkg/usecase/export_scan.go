package usecase

import (
	"context"
	"path"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/bqs"
	"github.com/m-mizutani/goerr/v2"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/devstudio-sec/devscan/pkg/utils/errutil"
	"github.com/devstudio-sec/devscan/pkg/utils/logging"
)

// exportScan archives raw scanner output and records a summary of the job.
// Failures are reported but never change env.
func (x *UseCase) exportScan(ctx context.Context, job *model.ScanJob, env *model.ResultEnvelope, raw []byte) {
	ctx = context.WithoutCancel(ctx)

	var artifactURL string
	if store := x.clients.ArtifactStore(); store != nil && len(raw) > 0 {
		key := ArtifactKey(job)
		url, err := store.Put(ctx, key, raw)
		if err != nil {
			errutil.HandleError(ctx, "failed to archive scanner output", goerr.Wrap(err, "failed to put artifact", goerr.V("key", key)))
		} else {
			artifactURL = url
			logging.From(ctx).Debug("scanner output archived", "url", url)
		}
	}

	if bq := x.clients.BigQuery(); bq != nil {
		record := model.NewScanRecord(env, job.StartedAt.UTC(), artifactURL)
		if err := insertScanRecord(ctx, bq, record); err != nil {
			errutil.HandleError(ctx, "failed to export scan record", err)
		}
	}
}

// ArtifactKey returns the object key of a job's raw scanner output.
func ArtifactKey(job *model.ScanJob) string {
	return path.Join(job.Target.RepoName(), job.ID.String()+".json")
}

func insertScanRecord(ctx context.Context, bq interfaces.BigQuery, record *model.ScanRecord) error {
	schema, schemaUpdated, err := createOrUpdateBigQueryTable(ctx, bq, record)
	if err != nil {
		return err
	}

	rawRecord := &model.ScanRawRecord{
		ScanRecord: *record,
		Timestamp:  record.Timestamp.UnixMicro(),
	}

	// A freshly updated schema may not be visible to the write stream yet.
	if err := bq.Insert(ctx, schema, rawRecord, interfaces.WithRetry(schemaUpdated)); err != nil {
		return goerr.Wrap(err, "failed to insert scan record to BigQuery", goerr.V("scan_id", record.ID))
	}

	return nil
}

func createOrUpdateBigQueryTable(ctx context.Context, bq interfaces.BigQuery, record *model.ScanRecord) (schema bigquery.Schema, schemaUpdated bool, err error) {
	schema, err = bqs.Infer(record)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to infer scan record schema")
	}

	metaData, err := bq.GetMetadata(ctx)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to get BigQuery table metadata")
	}
	if metaData == nil {
		if err := bq.CreateTable(ctx, &bigquery.TableMetadata{
			Schema: schema,
		}); err != nil {
			return nil, false, goerr.Wrap(err, "failed to create BigQuery table")
		}

		return schema, false, nil
	}

	if bqs.Equal(metaData.Schema, schema) {
		return schema, false, nil
	}

	mergedSchema, err := bqs.Merge(metaData.Schema, schema)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to merge BigQuery schema")
	}
	if err := bq.UpdateTable(ctx, bigquery.TableMetadataToUpdate{
		Schema: mergedSchema,
	}, metaData.ETag); err != nil {
		return nil, false, goerr.Wrap(err, "failed to update BigQuery table")
	}

	return mergedSchema, true, nil
}
