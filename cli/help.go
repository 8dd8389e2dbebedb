package cli

import "github.com/MakeNowJust/heredoc"

var envHelp = map[string]string{
	"short": "List of supported environment variables",
	"long": heredoc.Doc(`
			SIEVE_LOG_LEVEL: log level of the cli, one of debug, info, warn, error.

			SIEVE_STORE_DRIVER: saved search store, one of memory, file, postgres, redis.

			SIEVE_STORE_FILE_DIR: directory of the file store.

			SIEVE_STORE_POSTGRES_HOST, SIEVE_STORE_POSTGRES_PORT, SIEVE_STORE_POSTGRES_NAME,
			SIEVE_STORE_POSTGRES_USER, SIEVE_STORE_POSTGRES_PASSWORD: postgres store connection.

			SIEVE_STORE_REDIS_ADDR, SIEVE_STORE_REDIS_PASSWORD, SIEVE_STORE_REDIS_DB: redis store connection.

			SIEVE_SEARCH_THRESHOLD, SIEVE_SEARCH_LIMIT, SIEVE_SEARCH_FUZZY: default search options.

			SIEVE_STATSD_ENABLED, SIEVE_STATSD_ADDRESS, SIEVE_STATSD_PREFIX: statsd reporter.
		`),
}
