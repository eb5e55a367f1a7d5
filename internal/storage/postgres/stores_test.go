package postgres_test

import (
	"content_fetcher/internal/service"
	"content_fetcher/internal/storage/postgres"
)

// The fetch service consumes the stores through its own interfaces; these
// assertions fail the build if a store signature drifts.
var (
	_ service.ContentStore       = (*postgres.ContentStore)(nil)
	_ service.TaskStore          = (*postgres.FetchTaskStore)(nil)
	_ service.UserStore          = (*postgres.TrackedUserStore)(nil)
	_ service.TransactionManager = (*postgres.TransactionManager)(nil)
)
