package bq_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/bqs"
	"github.com/m-mizutani/gt"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/infra/bq"
	"github.com/devstudio-sec/devscan/pkg/utils/testutil"
)

func newRecord() *model.ScanRawRecord {
	env := model.NewSuccessEnvelope("scan completed", []model.Finding{
		{File: "main.go", Line: 3, RuleID: "go.lang.security.audit", Severity: model.SeverityError, Message: "bad"},
		{File: "util.go", RuleID: "go.lang.style", Severity: model.SeverityInfo, Message: "meh"},
	})
	env.JobID = types.NewJobID()
	env.Repository = "https://github.com/devstudio-sec/devscan"

	record := model.NewScanRecord(env, time.Now().UTC(), "gs://bucket/raw.json")
	return &model.ScanRawRecord{
		ScanRecord: *record,
		Timestamp:  record.Timestamp.UnixMicro(),
	}
}

func TestClient(t *testing.T) {
	projectID := testutil.GetEnvOrSkip(t, "TEST_BIGQUERY_PROJECT_ID")
	datasetID := testutil.GetEnvOrSkip(t, "TEST_BIGQUERY_DATASET_ID")

	ctx := context.Background()

	tblName := types.BQTableID(time.Now().Format("insert_test_20060102_150405"))
	client := gt.R1(bq.New(ctx, types.GoogleProjectID(projectID), types.BQDatasetID(datasetID), tblName)).NoError(t)

	schema := gt.R1(bqs.Infer(model.ScanRecord{})).NoError(t)

	t.Run("metadata of missing table is nil", func(t *testing.T) {
		md := gt.R1(client.GetMetadata(ctx)).NoError(t)
		gt.V(t, md).Equal(nil)
	})

	t.Run("create table and insert record", func(t *testing.T) {
		gt.NoError(t, client.CreateTable(ctx, &bigquery.TableMetadata{
			Name:   tblName.String(),
			Schema: schema,
		}))
		gt.NoError(t, client.Insert(ctx, schema, newRecord(), interfaces.WithRetry(true)))
	})
}

func TestEncodeRow(t *testing.T) {
	schema := gt.R1(bqs.Infer(model.ScanRecord{})).NoError(t)

	_, row, err := bq.EncodeRow(schema, newRecord())
	gt.NoError(t, err)
	gt.A(t, row).Longer(0)
}

func TestProtoFieldJSONName(t *testing.T) {
	gt.V(t, bq.ProtoFieldJSONName("rule_id")).Equal("rule_id")
	gt.V(t, bq.ProtoFieldJSONName("semgrep-rules")).Equal("col_c2VtZ3JlcC1ydWxlcw")
}

func TestSanitizeProtoJSON(t *testing.T) {
	raw := []byte(`{"findings":[{"rule-id":"a","line":3}],"status":"success"}`)
	out := gt.R1(bq.SanitizeProtoJSON(raw)).NoError(t)

	var decoded map[string]any
	gt.NoError(t, json.Unmarshal(out, &decoded))
	gt.V(t, decoded["status"]).Equal("success")

	findings := decoded["findings"].([]any)
	first := findings[0].(map[string]any)
	_, hasInvalid := first["rule-id"]
	gt.False(t, hasInvalid)
	gt.V(t, first["col_cnVsZS1pZA"]).Equal("a")
}
