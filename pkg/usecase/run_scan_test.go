package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/domain/mock"
	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/infra"
	"github.com/devstudio-sec/devscan/pkg/infra/workspace"
	"github.com/devstudio-sec/devscan/pkg/usecase"
)

const (
	testRepoURL    = "https://host/org/repo.git"
	testCredential = types.Credential("TOKEN")
)

func twoResultsReport(dir string) []byte {
	return []byte(fmt.Sprintf(`{"results": [
		{"check_id": "python.eval", "path": %q, "start": {"line": 3}, "extra": {"message": "eval detected", "severity": "ERROR"}},
		{"check_id": "python.print", "path": %q, "start": {"line": 7}, "extra": {"message": "print detected", "severity": "WARNING"}}
	], "errors": []}`, filepath.Join(dir, "app.py"), filepath.Join(dir, "app.py")))
}

// cloneFetcher simulates a successful clone by writing a file into dst.
func cloneFetcher(t *testing.T) *mock.RepositoryFetcherMock {
	return &mock.RepositoryFetcherMock{
		FetchFunc: func(ctx context.Context, target *model.AuthTarget, dst string) error {
			gt.V(t, target.URL()).Equal(testRepoURL)
			return os.WriteFile(filepath.Join(dst, "app.py"), []byte("eval(input())\n"), 0o600)
		},
	}
}

func TestRunScan(t *testing.T) {
	t.Run("two findings are returned in emission order", func(t *testing.T) {
		baseDir := t.TempDir()
		fetcher := cloneFetcher(t)
		scanner := &mock.ScannerMock{
			ScanFunc: func(ctx context.Context, path string, timeout time.Duration) ([]byte, error) {
				gt.V(t, path).Equal(filepath.Join(baseDir, "repo"))
				gt.V(t, timeout).Equal(30 * time.Second)
				_, err := os.Stat(filepath.Join(path, "app.py"))
				gt.NoError(t, err)
				return twoResultsReport(path), nil
			},
		}

		uc := usecase.New(infra.New(
			infra.WithFetcher(fetcher),
			infra.WithScanner(scanner),
			infra.WithWorkspace(workspace.New()),
		), usecase.WithWorkspaceDir(baseDir), usecase.WithScanTimeout(30*time.Second))

		env := uc.RunScan(context.Background(), &model.RunScanInput{
			RepositoryURL: testRepoURL,
			Credential:    testCredential,
		})

		gt.V(t, env.Status).Equal(model.EnvelopeSuccess)
		gt.V(t, env.Message).Equal(usecase.MsgScanCompleted)
		gt.V(t, env.Repository).Equal(testRepoURL)
		gt.V(t, env.JobID).NotEqual("")
		gt.V(t, env.Findings).Equal([]model.Finding{
			{File: "app.py", Line: 3, RuleID: "python.eval", Severity: model.SeverityError, Message: "eval detected"},
			{File: "app.py", Line: 7, RuleID: "python.print", Severity: model.SeverityWarning, Message: "print detected"},
		})
		gt.V(t, len(fetcher.FetchCalls())).Equal(1)

		// workspace is removed after the job
		_, err := os.Stat(filepath.Join(baseDir, "repo"))
		gt.True(t, os.IsNotExist(err))
	})

	t.Run("ftp URL fails before any filesystem action", func(t *testing.T) {
		baseDir := filepath.Join(t.TempDir(), "ws")
		fetcher := &mock.RepositoryFetcherMock{}
		ws := &mock.WorkspaceMock{}

		uc := usecase.New(infra.New(
			infra.WithFetcher(fetcher),
			infra.WithWorkspace(ws),
		), usecase.WithWorkspaceDir(baseDir))

		env := uc.RunScan(context.Background(), &model.RunScanInput{
			RepositoryURL: "ftp://host/repo",
			Credential:    testCredential,
		})

		gt.V(t, env.Status).Equal(model.EnvelopeError)
		gt.V(t, env.Message).Equal("unsupported scheme")
		gt.V(t, len(env.Findings)).Equal(0)
		gt.V(t, len(fetcher.FetchCalls())).Equal(0)
		gt.V(t, len(ws.PrepareCalls())).Equal(0)

		_, err := os.Stat(baseDir)
		gt.True(t, os.IsNotExist(err))
	})

	t.Run("missing credential is invalid input", func(t *testing.T) {
		uc := usecase.New(infra.New(infra.WithWorkspace(&mock.WorkspaceMock{})))

		env := uc.RunScan(context.Background(), &model.RunScanInput{RepositoryURL: testRepoURL})
		gt.V(t, env.Status).Equal(model.EnvelopeError)
		gt.V(t, env.Message).Equal("invalid input")

		env = uc.RunScan(context.Background(), nil)
		gt.V(t, env.Message).Equal("invalid input")
	})

	t.Run("fetch failure detail never contains the credential", func(t *testing.T) {
		baseDir := t.TempDir()
		fetcher := &mock.RepositoryFetcherMock{
			FetchFunc: func(ctx context.Context, target *model.AuthTarget, dst string) error {
				return goerr.Wrap(types.ErrFetch, "git clone failed",
					goerr.V("exit_code", 128),
					goerr.V("stderr_tail", "fatal: unable to access '"+target.AuthenticatedURL()+"'"),
				)
			},
		}
		scanner := &mock.ScannerMock{}

		uc := usecase.New(infra.New(
			infra.WithFetcher(fetcher),
			infra.WithScanner(scanner),
			infra.WithWorkspace(workspace.New()),
		), usecase.WithWorkspaceDir(baseDir))

		env := uc.RunScan(context.Background(), &model.RunScanInput{
			RepositoryURL: testRepoURL,
			Credential:    testCredential,
		})

		gt.V(t, env.Message).Equal("repository fetch failed")
		gt.True(t, strings.Contains(env.Error, "fatal: unable to access"))
		gt.False(t, strings.Contains(env.Error, "TOKEN"))
		gt.V(t, len(scanner.ScanCalls())).Equal(0)

		_, err := os.Stat(filepath.Join(baseDir, "repo"))
		gt.True(t, os.IsNotExist(err))
	})

	t.Run("pipeline errors map to envelope messages", func(t *testing.T) {
		testCases := map[string]struct {
			scan    func(ctx context.Context, path string, timeout time.Duration) ([]byte, error)
			message string
		}{
			"timeout": {
				scan: func(ctx context.Context, path string, timeout time.Duration) ([]byte, error) {
					return nil, goerr.Wrap(types.ErrScanTimeout, "semgrep timed out")
				},
				message: "scan timed out",
			},
			"process": {
				scan: func(ctx context.Context, path string, timeout time.Duration) ([]byte, error) {
					return nil, goerr.Wrap(types.ErrScanProcess, "semgrep crashed", goerr.V("stderr_tail", "Traceback"))
				},
				message: "scan process failed",
			},
			"malformed": {
				scan: func(ctx context.Context, path string, timeout time.Duration) ([]byte, error) {
					return []byte("<html>"), nil
				},
				message: "malformed scanner output",
			},
			"unknown": {
				scan: func(ctx context.Context, path string, timeout time.Duration) ([]byte, error) {
					return nil, errors.New("something else")
				},
				message: "internal error",
			},
			"panic": {
				scan: func(ctx context.Context, path string, timeout time.Duration) ([]byte, error) {
					panic("scanner exploded")
				},
				message: "internal error",
			},
		}

		for name, tc := range testCases {
			t.Run(name, func(t *testing.T) {
				baseDir := t.TempDir()
				uc := usecase.New(infra.New(
					infra.WithFetcher(cloneFetcher(t)),
					infra.WithScanner(&mock.ScannerMock{ScanFunc: tc.scan}),
					infra.WithWorkspace(workspace.New()),
				), usecase.WithWorkspaceDir(baseDir))

				env := uc.RunScan(context.Background(), &model.RunScanInput{
					RepositoryURL: testRepoURL,
					Credential:    testCredential,
				})

				gt.V(t, env.Status).Equal(model.EnvelopeError)
				gt.V(t, env.Message).Equal(tc.message)
				gt.V(t, env.Error).NotEqual("")

				_, err := os.Stat(filepath.Join(baseDir, "repo"))
				gt.True(t, os.IsNotExist(err))
			})
		}
	})

	t.Run("cancelled context yields scan cancelled", func(t *testing.T) {
		ws := &mock.WorkspaceMock{
			LockFunc: func(repoIdentifier string) func() { return func() {} },
		}
		uc := usecase.New(infra.New(infra.WithWorkspace(ws)))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		env := uc.RunScan(ctx, &model.RunScanInput{
			RepositoryURL: testRepoURL,
			Credential:    testCredential,
		})
		gt.V(t, env.Message).Equal("scan cancelled")
		gt.V(t, len(ws.PrepareCalls())).Equal(0)
	})

	t.Run("waiting for a scan slot honours cancellation", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		scanner := &mock.ScannerMock{
			ScanFunc: func(ctx context.Context, path string, timeout time.Duration) ([]byte, error) {
				close(started)
				<-release
				return []byte(`{"results": []}`), nil
			},
		}

		uc := usecase.New(infra.New(
			infra.WithFetcher(cloneFetcher(t)),
			infra.WithScanner(scanner),
			infra.WithWorkspace(workspace.New()),
		), usecase.WithWorkspaceDir(t.TempDir()), usecase.WithMaxConcurrentScans(1))

		var wg sync.WaitGroup
		var first *model.ResultEnvelope
		wg.Add(1)
		go func() {
			defer wg.Done()
			first = uc.RunScan(context.Background(), &model.RunScanInput{
				RepositoryURL: testRepoURL,
				Credential:    testCredential,
			})
		}()
		<-started

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		second := uc.RunScan(ctx, &model.RunScanInput{
			RepositoryURL: "https://host/org/other.git",
			Credential:    testCredential,
		})
		gt.V(t, second.Message).Equal("scan cancelled")

		close(release)
		wg.Wait()
		gt.V(t, first.Status).Equal(model.EnvelopeSuccess)
	})

	t.Run("same repository jobs do not share a workspace concurrently", func(t *testing.T) {
		var mu sync.Mutex
		active := 0
		maxActive := 0

		scanner := &mock.ScannerMock{
			ScanFunc: func(ctx context.Context, path string, timeout time.Duration) ([]byte, error) {
				mu.Lock()
				active++
				if active > maxActive {
					maxActive = active
				}
				mu.Unlock()

				time.Sleep(20 * time.Millisecond)

				mu.Lock()
				active--
				mu.Unlock()
				return []byte(`{"results": []}`), nil
			},
		}

		uc := usecase.New(infra.New(
			infra.WithFetcher(cloneFetcher(t)),
			infra.WithScanner(scanner),
			infra.WithWorkspace(workspace.New()),
		), usecase.WithWorkspaceDir(t.TempDir()), usecase.WithMaxConcurrentScans(4))

		var wg sync.WaitGroup
		envs := make([]*model.ResultEnvelope, 4)
		for i := range envs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				envs[i] = uc.RunScan(context.Background(), &model.RunScanInput{
					RepositoryURL: testRepoURL,
					Credential:    testCredential,
				})
			}(i)
		}
		wg.Wait()

		for _, env := range envs {
			gt.V(t, env.Status).Equal(model.EnvelopeSuccess)
		}
		gt.V(t, maxActive).Equal(1)
	})
}

func TestRunScanExport(t *testing.T) {
	newUseCase := func(t *testing.T, options ...infra.Option) *usecase.UseCase {
		scanner := &mock.ScannerMock{
			ScanFunc: func(ctx context.Context, path string, timeout time.Duration) ([]byte, error) {
				return twoResultsReport(path), nil
			},
		}
		options = append(options,
			infra.WithFetcher(cloneFetcher(t)),
			infra.WithScanner(scanner),
			infra.WithWorkspace(workspace.New()),
		)
		return usecase.New(infra.New(options...), usecase.WithWorkspaceDir(t.TempDir()))
	}

	t.Run("raw output is archived and a record is inserted", func(t *testing.T) {
		store := &mock.ArtifactStoreMock{
			PutFunc: func(ctx context.Context, key string, data []byte) (string, error) {
				gt.True(t, strings.HasPrefix(key, "repo/"))
				gt.True(t, strings.HasSuffix(key, ".json"))
				gt.True(t, strings.Contains(string(data), "python.eval"))
				return "s3://bucket/" + key, nil
			},
		}

		var inserted *model.ScanRawRecord
		bq := &mock.BigQueryMock{
			GetMetadataFunc: func(ctx context.Context) (*bigquery.TableMetadata, error) {
				return nil, nil
			},
			CreateTableFunc: func(ctx context.Context, md *bigquery.TableMetadata) error {
				gt.V(t, len(md.Schema)).NotEqual(0)
				return nil
			},
			InsertFunc: func(ctx context.Context, schema bigquery.Schema, data any, opts ...interfaces.BigQueryInsertOption) error {
				record, ok := data.(*model.ScanRawRecord)
				gt.True(t, ok)
				inserted = record
				return nil
			},
		}

		uc := newUseCase(t, infra.WithArtifactStore(store), infra.WithBigQuery(bq))
		env := uc.RunScan(context.Background(), &model.RunScanInput{
			RepositoryURL: testRepoURL,
			Credential:    testCredential,
		})

		gt.V(t, env.Status).Equal(model.EnvelopeSuccess)
		gt.V(t, len(store.PutCalls())).Equal(1)
		gt.V(t, store.PutCalls()[0].Key).Equal("repo/" + env.JobID.String() + ".json")

		gt.V(t, inserted).NotEqual(nil)
		gt.V(t, inserted.JobID).Equal(env.JobID)
		gt.V(t, inserted.Status).Equal("success")
		gt.V(t, len(inserted.Findings)).Equal(2)
		gt.V(t, inserted.ArtifactURL).Equal("s3://bucket/" + store.PutCalls()[0].Key)
		gt.V(t, inserted.Timestamp).Equal(inserted.ScanRecord.Timestamp.UnixMicro())
	})

	t.Run("export failures do not change the envelope", func(t *testing.T) {
		store := &mock.ArtifactStoreMock{
			PutFunc: func(ctx context.Context, key string, data []byte) (string, error) {
				return "", errors.New("bucket unavailable")
			},
		}
		bq := &mock.BigQueryMock{
			GetMetadataFunc: func(ctx context.Context) (*bigquery.TableMetadata, error) {
				return nil, errors.New("bigquery unavailable")
			},
		}

		uc := newUseCase(t, infra.WithArtifactStore(store), infra.WithBigQuery(bq))
		env := uc.RunScan(context.Background(), &model.RunScanInput{
			RepositoryURL: testRepoURL,
			Credential:    testCredential,
		})

		gt.V(t, env.Status).Equal(model.EnvelopeSuccess)
		gt.V(t, len(env.Findings)).Equal(2)
		gt.V(t, len(bq.InsertCalls())).Equal(0)
	})
}

func TestCreateOrUpdateBigQueryTable(t *testing.T) {
	ctx := context.Background()
	record := model.NewScanRecord(model.NewSuccessEnvelope("ok", nil), time.Now(), "")

	t.Run("missing table is created", func(t *testing.T) {
		bq := &mock.BigQueryMock{
			GetMetadataFunc: func(ctx context.Context) (*bigquery.TableMetadata, error) {
				return nil, nil
			},
			CreateTableFunc: func(ctx context.Context, md *bigquery.TableMetadata) error {
				return nil
			},
		}

		_, updated, err := usecase.CreateOrUpdateBigQueryTableForTest(ctx, bq, record)
		gt.NoError(t, err)
		gt.False(t, updated)
		gt.V(t, len(bq.CreateTableCalls())).Equal(1)
	})

	t.Run("schema is merged once and then left alone", func(t *testing.T) {
		var current bigquery.Schema
		bq := &mock.BigQueryMock{
			GetMetadataFunc: func(ctx context.Context) (*bigquery.TableMetadata, error) {
				return &bigquery.TableMetadata{Schema: current}, nil
			},
			UpdateTableFunc: func(ctx context.Context, md bigquery.TableMetadataToUpdate, eTag string) error {
				return nil
			},
		}

		schema, updated, err := usecase.CreateOrUpdateBigQueryTableForTest(ctx, bq, record)
		gt.NoError(t, err)
		gt.True(t, updated)
		gt.V(t, len(bq.UpdateTableCalls())).Equal(1)

		current = schema
		_, updated, err = usecase.CreateOrUpdateBigQueryTableForTest(ctx, bq, record)
		gt.NoError(t, err)
		gt.False(t, updated)
		gt.V(t, len(bq.UpdateTableCalls())).Equal(1)
	})
}
