package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/internal/server"
	"github.com/matzehuels/sankey/pkg/cache"
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/observability"
	"github.com/matzehuels/sankey/pkg/pipeline"
)

// keyPrefix namespaces server cache keys in a shared store.
const keyPrefix = "sankey:v1:"

type serveOpts struct {
	addr       string
	redisURL   string
	mongoURI   string
	mongoDB    string
	configPath string
	noCache    bool
	maxBody    int64
	timeout    time.Duration
}

func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:    server.DefaultAddr,
		mongoDB: appName,
		maxBody: server.DefaultMaxBodySize,
		timeout: server.DefaultTimeout,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and render API over HTTP",
		Example: `  sankey serve --addr :9000
  sankey serve --redis redis://localhost:6379/0 -c style.toml
  sankey serve --redis redis://cache:6379/0 --mongo mongodb://db:27017`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", opts.addr, "listen address")
	f.StringVar(&opts.redisURL, "redis", "", "Redis URL for a shared cache (default: local file cache)")
	f.StringVar(&opts.mongoURI, "mongo", "", "MongoDB URI for a durable cache, behind Redis when both are set")
	f.StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "MongoDB database name")
	f.StringVarP(&opts.configPath, "config", "c", "", "TOML style used when a request does not override it")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	f.Int64Var(&opts.maxBody, "max-body", opts.maxBody, "maximum request body size in bytes")
	f.DurationVar(&opts.timeout, "timeout", opts.timeout, "per-request timeout")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts *serveOpts) error {
	ctx := cmd.Context()

	style, err := loadStyle(opts.configPath)
	if err != nil {
		return err
	}

	runner, err := c.serverRunner(cmd, opts)
	if err != nil {
		return err
	}
	defer runner.Close()

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetServerHooks(hooks)
	defer observability.Reset()

	srv := server.New(runner, c.Logger,
		server.WithStyle(style),
		server.WithMaxBodySize(opts.maxBody),
		server.WithTimeout(opts.timeout))
	return srv.ListenAndServe(ctx, opts.addr)
}

// serverRunner picks the cache for the server: Redis and MongoDB when set,
// tiered when both are, otherwise the local file cache.
func (c *CLI) serverRunner(cmd *cobra.Command, opts *serveOpts) (*pipeline.Runner, error) {
	if opts.noCache || (opts.redisURL == "" && opts.mongoURI == "") {
		return c.newRunner(opts.noCache)
	}
	ctx := cmd.Context()

	if opts.redisURL != "" {
		if err := errors.ValidateURL(opts.redisURL, "redis", "rediss"); err != nil {
			return nil, err
		}
	}
	if opts.mongoURI != "" {
		if err := errors.ValidateURL(opts.mongoURI, "mongodb", "mongodb+srv"); err != nil {
			return nil, err
		}
	}

	var tiers []cache.Cache
	closeAll := func() {
		for _, t := range tiers {
			t.Close()
		}
	}

	if opts.redisURL != "" {
		rc, err := cache.NewRedisCache(opts.redisURL)
		if err != nil {
			return nil, err
		}
		if err := rc.Ping(ctx); err != nil {
			rc.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		tiers = append(tiers, rc)
	}
	if opts.mongoURI != "" {
		mc, err := cache.NewMongoCache(ctx, opts.mongoURI, opts.mongoDB)
		if err != nil {
			closeAll()
			return nil, err
		}
		tiers = append(tiers, mc)
	}

	cc := tiers[0]
	if len(tiers) == 2 {
		cc = cache.NewTieredCache(tiers[0], tiers[1])
	}
	c.Logger.Info("using shared cache", "redis", opts.redisURL != "", "mongo", opts.mongoURI != "", "prefix", keyPrefix)
	return pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, keyPrefix), c.Logger), nil
}
