package infra

import (
	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/infra/executor"
	"github.com/devstudio-sec/devscan/pkg/infra/git"
	"github.com/devstudio-sec/devscan/pkg/infra/semgrep"
	"github.com/devstudio-sec/devscan/pkg/infra/workspace"
)

type Clients struct {
	executor         interfaces.Executor
	fetcher          interfaces.RepositoryFetcher
	scanner          interfaces.Scanner
	workspace        interfaces.Workspace
	bqClient         interfaces.BigQuery
	artifactStore    interfaces.ArtifactStore
	notificationRepo interfaces.NotificationRepository
}

type Option func(*Clients)

// New builds Clients. Unless given by options, the fetcher and scanner run the
// git and semgrep binaries through the configured executor.
func New(options ...Option) *Clients {
	client := &Clients{
		workspace: workspace.New(),
	}

	for _, opt := range options {
		opt(client)
	}

	if client.executor == nil {
		client.executor = executor.New()
	}
	if client.fetcher == nil {
		client.fetcher = git.NewCommandFetcher(client.executor)
	}
	if client.scanner == nil {
		client.scanner = semgrep.New(client.executor)
	}

	return client
}

func (x *Clients) Executor() interfaces.Executor {
	return x.executor
}
func (x *Clients) Fetcher() interfaces.RepositoryFetcher {
	return x.fetcher
}
func (x *Clients) Scanner() interfaces.Scanner {
	return x.scanner
}
func (x *Clients) Workspace() interfaces.Workspace {
	return x.workspace
}
func (x *Clients) BigQuery() interfaces.BigQuery {
	return x.bqClient
}
func (x *Clients) ArtifactStore() interfaces.ArtifactStore {
	return x.artifactStore
}
func (x *Clients) NotificationRepository() interfaces.NotificationRepository {
	return x.notificationRepo
}

func WithExecutor(exec interfaces.Executor) Option {
	return func(x *Clients) {
		x.executor = exec
	}
}

func WithFetcher(fetcher interfaces.RepositoryFetcher) Option {
	return func(x *Clients) {
		x.fetcher = fetcher
	}
}

func WithScanner(scanner interfaces.Scanner) Option {
	return func(x *Clients) {
		x.scanner = scanner
	}
}

func WithWorkspace(ws interfaces.Workspace) Option {
	return func(x *Clients) {
		x.workspace = ws
	}
}

func WithBigQuery(client interfaces.BigQuery) Option {
	return func(x *Clients) {
		x.bqClient = client
	}
}

func WithArtifactStore(store interfaces.ArtifactStore) Option {
	return func(x *Clients) {
		x.artifactStore = store
	}
}

func WithNotificationRepository(repo interfaces.NotificationRepository) Option {
	return func(x *Clients) {
		x.notificationRepo = repo
	}
}
